package command

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ArgType is the type of a command argument.
type ArgType uint8

const (
	ArgString ArgType = iota
	ArgNumber
	ArgBoolean
	// ArgEnum accepts one of Arg.Options.
	ArgEnum
	// ArgColumn is a column id. The registry checks only that it is a
	// string; handlers report unknown columns.
	ArgColumn
)

func (t ArgType) String() string {
	switch t {
	case ArgString:
		return "string"
	case ArgNumber:
		return "number"
	case ArgBoolean:
		return "boolean"
	case ArgEnum:
		return "enum"
	case ArgColumn:
		return "column"
	}
	return "unknown"
}

// Arg describes one command argument.
type Arg struct {
	Name        string
	Type        ArgType
	Required    bool
	Default     any
	Description string
	Options     []string
}

// Validate checks value against the argument. nil means absent.
func (a *Arg) Validate(value any) error {
	if value == nil {
		if a.Required {
			return fmt.Errorf("%w: %q is required", ErrBadArgs, a.Name)
		}
		return nil
	}
	switch a.Type {
	case ArgNumber:
		if _, ok := toFloat(value); !ok {
			return fmt.Errorf("%w: %q must be a number", ErrBadArgs, a.Name)
		}
	case ArgBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: %q must be a boolean", ErrBadArgs, a.Name)
		}
	case ArgEnum:
		s, ok := value.(string)
		if !ok || !slices.Contains(a.Options, s) {
			return fmt.Errorf("%w: %q must be one of %s", ErrBadArgs, a.Name, strings.Join(a.Options, ", "))
		}
	default:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: %q must be a string", ErrBadArgs, a.Name)
		}
	}
	return nil
}

// parse converts command-line text to the argument's type.
func (a *Arg) parse(text string) (any, error) {
	switch a.Type {
	case ArgNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q must be a number", ErrBadArgs, a.Name)
		}
		return f, nil
	case ArgBoolean:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %q must be a boolean", ErrBadArgs, a.Name)
		}
		return b, nil
	}
	return text, nil
}

// Handler runs a command with validated arguments.
type Handler func(args map[string]any) error

// Command is a named grid action.
type Command struct {
	// ID is the unique identifier, such as "sort" or "filter.clear".
	ID       string
	Title    string
	Category string
	// Description is searched after the title and id.
	Description string
	// Keys is the display form of a bound chord, if any.
	Keys    string
	Args    []Arg
	Handler Handler
	// Source is "builtin" or the registering plugin's name.
	Source string
}

// Execute validates args, fills defaults and runs the handler. The
// caller's map is not modified.
func (c *Command) Execute(args map[string]any) error {
	for i := range c.Args {
		a := &c.Args[i]
		v, ok := args[a.Name]
		if !ok {
			v = a.Default
		}
		if err := a.Validate(v); err != nil {
			return fmt.Errorf("command %q: %w", c.ID, err)
		}
	}
	if c.Handler == nil {
		return fmt.Errorf("command %q: %w", c.ID, ErrNoHandler)
	}

	run := maps.Clone(args)
	if run == nil {
		run = make(map[string]any, len(c.Args))
	}
	for _, a := range c.Args {
		if _, ok := run[a.Name]; !ok && a.Default != nil {
			run[a.Name] = a.Default
		}
	}
	return c.Handler(run)
}

// Bind maps positional words onto the command's arguments in order.
// Surplus words are joined into the last string argument so
// "filter new york" filters on "new york".
func (c *Command) Bind(words []string) (map[string]any, error) {
	args := make(map[string]any, len(c.Args))
	for i := range c.Args {
		if i >= len(words) {
			break
		}
		a := &c.Args[i]
		text := words[i]
		if i == len(c.Args)-1 && len(words) > len(c.Args) && a.Type == ArgString {
			text = strings.Join(words[i:], " ")
		}
		v, err := a.parse(text)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", c.ID, err)
		}
		args[a.Name] = v
	}
	return args, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// split breaks a command line into words. Double or single quotes group
// words containing spaces.
func split(line string) []string {
	var words []string
	var cur strings.Builder
	var quote rune
	inWord := false
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words
}
