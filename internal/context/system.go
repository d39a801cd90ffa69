package context

import (
	"context"
	"os"
	"os/user"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/expand"
)

// UserRetriever reports the login name.
type UserRetriever struct {
	env expand.Environ
}

// NewUserRetriever creates a UserRetriever.
func NewUserRetriever(env expand.Environ) *UserRetriever {
	return &UserRetriever{env: env}
}

// Name returns the retriever name.
func (r *UserRetriever) Name() string {
	return NameUser
}

// GetContext returns $USER, $LOGNAME or the account name from the user database.
func (r *UserRetriever) GetContext(ctx context.Context) (string, error) {
	for _, name := range []string{"USER", "LOGNAME"} {
		if v := r.env.Get(name).String(); v != "" {
			return v, nil
		}
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// HostRetriever reports the short host name.
type HostRetriever struct {
	hostname func() (string, error)
}

// NewHostRetriever creates a HostRetriever.
func NewHostRetriever() *HostRetriever {
	return &HostRetriever{hostname: os.Hostname}
}

// Name returns the retriever name.
func (r *HostRetriever) Name() string {
	return NameHost
}

// GetContext returns the host name up to the first dot.
func (r *HostRetriever) GetContext(ctx context.Context) (string, error) {
	host, err := r.hostname()
	if err != nil {
		return "", err
	}
	short, _, _ := strings.Cut(host, ".")
	return short, nil
}

// EUIDRetriever reports the effective user id.
type EUIDRetriever struct{}

// NewEUIDRetriever creates an EUIDRetriever.
func NewEUIDRetriever() *EUIDRetriever {
	return &EUIDRetriever{}
}

// Name returns the retriever name.
func (r *EUIDRetriever) Name() string {
	return NameEUID
}

// GetContext returns the effective uid, or "" where the platform has none.
func (r *EUIDRetriever) GetContext(ctx context.Context) (string, error) {
	euid := os.Geteuid()
	if euid < 0 {
		return "", nil
	}
	return strconv.Itoa(euid), nil
}
