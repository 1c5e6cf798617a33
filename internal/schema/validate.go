package schema

// Validate checks invariants that can only be verified once the whole
// class graph is known: no inheritance cycles, and every declared
// opposite resolves to a real reference on its target. Consolas calls
// this once, after all classes and their bodies are declared and before
// generating meta constraints.
func (s *Schema) Validate() error {
	for _, c := range s.Classes() {
		if err := checkNoCycle(c); err != nil {
			return err
		}
		for _, ref := range c.References {
			if _, err := ref.OppositeRef(); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkNoCycle(c *Class) error {
	visited := map[*Class]bool{}
	for cur := c; cur != nil; cur = cur.Supertype {
		if visited[cur] {
			return &CycleError{Class: c.Name}
		}
		visited[cur] = true
	}
	return nil
}
