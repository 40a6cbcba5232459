package goquery

// Articles clusters the page's <article> elements. It returns nil when the
// page has fewer than two of them.
func (d *Document) Articles() []Candidate {
	nodes := d.Find("article")
	if len(nodes) < 2 {
		return nil
	}

	seeds := make([]Seed, len(nodes))
	for i, n := range nodes {
		seeds[i] = Seed{Node: n}
	}
	return d.Climb(seeds)
}
