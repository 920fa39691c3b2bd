package layers

// Sink receives output tables in emission order. The host decides what a
// table becomes: a layer in a viewer, a container table, a test fixture.
type Sink interface {
	AddTable(t *Table) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(t *Table) error

// AddTable calls f(t).
func (f SinkFunc) AddTable(t *Table) error {
	return f(t)
}

// Collector is a Sink that keeps every table in memory.
type Collector struct {
	Tables []*Table
}

// AddTable appends t.
func (c *Collector) AddTable(t *Table) error {
	c.Tables = append(c.Tables, t)
	return nil
}

// Lookup returns the collected table with the given name.
func (c *Collector) Lookup(name string) (*Table, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Names returns the collected table names in order.
func (c *Collector) Names() []string {
	names := make([]string, len(c.Tables))
	for i, t := range c.Tables {
		names[i] = t.Name
	}
	return names
}
