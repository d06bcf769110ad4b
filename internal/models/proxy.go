package models

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

const proxyDescriptorFields = 4

// ProxyCredential is an outbound proxy and the credential used to authenticate against it.
type ProxyCredential struct {
	Host     string
	Port     int
	Username string
	Password string
}

// ParseProxyCredential decomposes a "host:port:username:password" descriptor.
func ParseProxyCredential(descriptor string) (ProxyCredential, error) {
	fields := strings.Split(descriptor, ":")
	if len(fields) != proxyDescriptorFields {
		return ProxyCredential{}, NewConfigError("proxy",
			fmt.Errorf("%w: expected %d fields, got %d", ErrInvalidProxyDescriptor, proxyDescriptorFields, len(fields)))
	}

	host := strings.TrimSpace(fields[0])
	if host == "" {
		return ProxyCredential{}, NewConfigError("proxy", fmt.Errorf("%w: empty host", ErrInvalidProxyDescriptor))
	}

	port, err := strconv.Atoi(fields[1])
	if err != nil || port < 1 || port > 65535 {
		return ProxyCredential{}, NewConfigError("proxy", fmt.Errorf("%w: invalid port %q", ErrInvalidProxyDescriptor, fields[1]))
	}

	return ProxyCredential{
		Host:     host,
		Port:     port,
		Username: fields[2],
		Password: fields[3],
	}, nil
}

// Server returns the host:port form passed to the browser's proxy-server argument.
func (p ProxyCredential) Server() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

func (p ProxyCredential) String() string {
	return fmt.Sprintf("%s@%s", p.Username, p.Server())
}
