// Package host defines the per-run environment handed to every executor.
package host

// Context is the host environment of a single run. The log buffer may be
// shared between runs; Fields belongs to the run and is not synchronized.
type Context struct {
	Log *LogBuffer

	// Fields carries host-defined data for executors that need more than
	// the log.
	Fields map[string]any
}

// New returns a host context writing to log. A nil log gets a private
// buffer with the default capacity.
func New(log *LogBuffer) *Context {
	if log == nil {
		log = NewLogBuffer(DefaultLogCapacity)
	}
	return &Context{Log: log, Fields: make(map[string]any)}
}

// Logf appends a formatted line to the host log.
func (c *Context) Logf(format string, args ...any) {
	c.Log.Pushf(format, args...)
}

// Field returns a host-defined field.
func (c *Context) Field(key string) (any, bool) {
	v, ok := c.Fields[key]
	return v, ok
}
