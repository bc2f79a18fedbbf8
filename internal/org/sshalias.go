package org

import (
	"strings"

	"github.com/kevinburke/ssh_config"
)

// Endpoint is a resolved connection target.
type Endpoint struct {
	Host string
	User string
}

// ResolveEndpoint turns an environment's connection string into a
// concrete host and user. Accepts user@host directly; bare names are
// looked up in ~/.ssh/config so aliases keep working the way they do
// for plain ssh.
func ResolveEndpoint(connection string) Endpoint {
	ep := Endpoint{Host: connection}
	if at := strings.Index(connection, "@"); at >= 0 {
		ep.User = connection[:at]
		ep.Host = connection[at+1:]
	}

	// An ssh_config HostName entry means the value was an alias.
	if hostname := ssh_config.Get(ep.Host, "HostName"); hostname != "" && hostname != ep.Host {
		if ep.User == "" {
			if user := ssh_config.Get(ep.Host, "User"); user != "" {
				ep.User = user
			}
		}
		ep.Host = hostname
	}

	return ep
}

// Port returns the configured ssh port for a host, consulting
// ~/.ssh/config, defaulting to 22.
func Port(host string) string {
	if port := ssh_config.Get(host, "Port"); port != "" {
		return port
	}
	return "22"
}
