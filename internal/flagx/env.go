package flagx

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Env reads prefixed environment variables through viper. Variables are
// named in full (PROMPTIFY_GRPC_ADDR); unset and empty ones leave the
// destination untouched.
type Env struct {
	prefix string
	v      *viper.Viper
}

// NewEnv binds a fresh viper instance to variables starting with prefix_.
func NewEnv(prefix string) *Env {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	return &Env{prefix: prefix, v: v}
}

func (e *Env) key(name string) string {
	return strings.TrimPrefix(name, e.prefix+"_")
}

func (e *Env) String(name string, dst *string) {
	if k := e.key(name); e.v.IsSet(k) {
		*dst = e.v.GetString(k)
	}
}

func (e *Env) Int(name string, dst *int) error {
	k := e.key(name)
	if !e.v.IsSet(k) {
		return nil
	}
	n, err := cast.ToIntE(e.v.Get(k))
	if err != nil {
		return fmt.Errorf("env %s: %w", name, err)
	}
	*dst = n
	return nil
}

// Duration accepts Go duration syntax ("90s"); a bare integer is nanoseconds.
func (e *Env) Duration(name string, dst *time.Duration) error {
	k := e.key(name)
	if !e.v.IsSet(k) {
		return nil
	}
	d, err := cast.ToDurationE(e.v.Get(k))
	if err != nil {
		return fmt.Errorf("env %s: %w", name, err)
	}
	*dst = d
	return nil
}
