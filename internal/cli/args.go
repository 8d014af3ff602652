package cli

import (
	"strconv"

	"pixel2gltf/internal/config"
)

// Usage is printed when no image path is given.
const Usage = "Usage: pixel2gltf image [-p 25 -r 245 -g 245 -b 245]"

// Setter applies the integer following a flag. It returns false to reject the value,
// which leaves the setting untouched.
type Setter func(v int) bool

// Registry maps flag names such as "-p" to setters.
type Registry struct {
	flags map[string]Setter
}

// NewRegistry returns an empty flag registry.
func NewRegistry() *Registry {
	return &Registry{flags: make(map[string]Setter)}
}

// Register adds a flag. name includes the leading dash.
func (r *Registry) Register(name string, set Setter) {
	r.flags[name] = set
}

// Apply scans args for "-flag value" pairs. Unknown flags, flags without a following
// value, non-integer values and values a setter rejects are ignored. An accepted value
// is consumed and not scanned again as a flag.
func (r *Registry) Apply(args []string) {
	for i := 0; i+1 < len(args); i++ {
		set, ok := r.flags[args[i]]
		if !ok {
			continue
		}
		v, err := strconv.Atoi(args[i+1])
		if err != nil {
			continue
		}
		if set(v) {
			i++
		}
	}
}

// Bind registers the converter's flags on r, writing into c:
// -p cell size (positive) and -r, -g, -b background channels (0..255).
func Bind(r *Registry, c *config.Config) {
	r.Register("-p", func(v int) bool {
		if v <= 0 {
			return false
		}
		c.CellSize = v
		return true
	})
	for i, name := range []string{"-r", "-g", "-b"} {
		r.Register(name, func(v int) bool {
			if v < 0 || v > 255 {
				return false
			}
			c.Background[i] = uint8(v)
			return true
		})
	}
}

// Parse takes the program arguments without the program name. The first argument is the
// image path; flags anywhere in args update c. ok is false when no image path was given.
func Parse(args []string, c *config.Config) (imagePath string, ok bool) {
	if len(args) == 0 {
		return "", false
	}
	r := NewRegistry()
	Bind(r, c)
	r.Apply(args)
	return args[0], true
}
