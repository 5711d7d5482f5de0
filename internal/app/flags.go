package app

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*pathValue)(nil)
	_ pflag.Value = (*pathsValue)(nil)
	_ pflag.Value = (*toolValue)(nil)
)

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("path must not be empty")
	}
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}

// pathsValue is a repeatable <path> flag. Each occurrence appends to the list.
type pathsValue []string

func (p *pathsValue) String() string {
	return strings.Join(*p, ",")
}

func (p *pathsValue) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("path must not be empty")
	}
	*p = append(*p, v)
	return nil
}

func (p *pathsValue) Type() string {
	return "<path>"
}

// toolValue names the formatter executable.
type toolValue string

func (t *toolValue) String() string {
	return string(*t)
}

func (t *toolValue) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("tool must not be empty")
	}
	*t = toolValue(v)
	return nil
}

func (t *toolValue) Type() string {
	return "<executable>"
}
