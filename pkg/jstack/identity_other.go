//go:build !linux

package jstack

import (
	"fmt"
	"os"
	"os/user"
)

// CurrentIdentity resolves the effective user running this tool.
func CurrentIdentity() (Identity, error) {
	u, err := user.Current()
	if err != nil {
		return Identity{}, fmt.Errorf("cannot resolve current user: %w", err)
	}
	return Identity{User: u.Username, UID: os.Geteuid()}, nil
}
