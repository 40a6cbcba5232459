package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/postfetch"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	switch {
	case c.Delete != "":
		return c.delete(deps)
	case c.Show != "":
		return c.show(deps)
	}

	filter := postfetch.ExtractionFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}
	if c.Method != "" {
		method := postfetch.Method(c.Method)
		filter.Method = &method
	}

	extractions, err := deps.Extractions.FindExtractions(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postfetch.ErrorMessage(err))
		return err
	}

	if len(extractions) == 0 {
		fmt.Fprintln(deps.Stdout, "No extractions found. Use 'getposts find' to extract posts.")
		return nil
	}

	for _, e := range extractions {
		outcome := string(e.Method)
		if e.Error != "" {
			outcome = "error: " + e.Error
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d  %s\n",
			e.ID, e.CreatedAt.Format(time.DateTime), outcome, e.PostCount, e.URL)
	}
	return nil
}

func (c *HistoryCmd) show(deps *Dependencies) error {
	e, err := deps.Extractions.FindExtractionByID(deps.Ctx, c.Show)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postfetch.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(e.Result)
}

func (c *HistoryCmd) delete(deps *Dependencies) error {
	if err := deps.Extractions.DeleteExtraction(deps.Ctx, c.Delete); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postfetch.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted extraction %s\n", c.Delete)
	return nil
}
