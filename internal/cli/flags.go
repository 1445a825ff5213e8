package cli

import (
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/spf13/pflag"
)

// contextFlag is a parent context flag value: "root" or a prefixed node id.
// An empty value is allowed when the flag is optional.
type contextFlag string

var _ pflag.Value = (*contextFlag)(nil)

func (c *contextFlag) String() string { return string(*c) }

func (c *contextFlag) Set(s string) error {
	if _, _, err := domain.ContextType(s); err != nil {
		return err
	}
	*c = contextFlag(s)
	return nil
}

func (c *contextFlag) Type() string { return "context" }

// contextVar registers a parent context flag on fs.
func contextVar(fs *pflag.FlagSet, p *contextFlag, name, value, usage string) {
	*p = contextFlag(value)
	fs.Var(p, name, usage)
}
