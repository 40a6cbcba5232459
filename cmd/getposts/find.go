package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/postfetch"
	"golang.org/x/sync/errgroup"
)

// Run executes the find command. It prints one JSON result per URL, in
// argument order, and records each result in the history.
func (c *FindCmd) Run(deps *Dependencies) error {
	if c.HTML != "" && len(c.URLs) != 1 {
		fmt.Fprintln(deps.Stderr, "error: --html takes exactly one URL")
		return postfetch.Errorf(postfetch.EINVALID, "--html takes exactly one URL")
	}

	var html string
	if c.HTML != "" {
		data, err := os.ReadFile(c.HTML)
		if err != nil {
			return fmt.Errorf("failed to read HTML file: %w", err)
		}
		html = string(data)
	}

	opts := c.options()
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postfetch.ErrorMessage(err))
		return err
	}

	results := make([]*postfetch.Result, len(c.URLs))
	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(max(c.Concurrency, 1))
	for i, url := range c.URLs {
		g.Go(func() error {
			req := &postfetch.Request{URL: url, HTML: html, Options: opts}
			res, err := deps.Finder.FindPosts(ctx, req)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if postfetch.ErrorCode(err) == postfetch.EINTERNAL && deps.Logger != nil {
					deps.Logger.Error("find posts", "url", url, "err", err)
				}
				res = postfetch.ErrorResult(err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	if c.Pretty {
		enc.SetIndent("", "  ")
	}
	for i, res := range results {
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		if c.NoSave || deps.Extractions == nil {
			continue
		}
		if err := deps.Extractions.CreateExtraction(deps.Ctx, postfetch.NewExtraction(c.URLs[i], res)); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", postfetch.ErrorMessage(err))
			return err
		}
	}

	return nil
}

func (c *FindCmd) options() postfetch.Options {
	return postfetch.Options{
		MaxPosts:    c.MaxPosts,
		Trim:        c.Trim,
		Clean:       !c.NoClean,
		LookForBlog: !c.NoBlog,
		ClassOnly:   c.ClassOnly,
		FullText:    c.FullText,
		PageTimeout: c.Timeout,
	}
}
