package transport

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/shipit-cli/shipit/internal/errors"
	"github.com/shipit-cli/shipit/internal/logger"
	"github.com/shipit-cli/shipit/internal/org"
	"github.com/shipit-cli/shipit/internal/util"
)

var log = logger.NewEnvLogger("[transport]")

// SSHRunner executes remote and post steps over ssh. Connections are
// cached per user@host for the lifetime of one pipeline run.
type SSHRunner struct {
	Timeout time.Duration

	clients map[string]*ssh.Client
}

// NewSSH creates an ssh runner with the given dial timeout.
func NewSSH(timeout time.Duration) *SSHRunner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SSHRunner{
		Timeout: timeout,
		clients: make(map[string]*ssh.Client),
	}
}

// Run executes cmd.Shell on cmd.Host as cmd.User, dropping to
// cmd.RunAs when set. Returns the remote exit code.
func (r *SSHRunner) Run(cmd Command, stdout, stderr io.Writer) (int, error) {
	client, err := r.client(cmd.User, cmd.Host)
	if err != nil {
		return -1, err
	}

	session, err := client.NewSession()
	if err != nil {
		return -1, errors.WrapWithCode(err, errors.ErrExec,
			"Failed to create SSH session",
			"The connection may have dropped; try again.")
	}
	defer session.Close()

	session.Stdout = stdout
	session.Stderr = stderr

	remote := cmd.Shell
	if cmd.RunAs != "" && cmd.RunAs != cmd.User {
		remote = fmt.Sprintf("sudo -u %s sh -c %s", cmd.RunAs, util.ShellQuote(remote))
	}

	if err := session.Run(remote); err != nil {
		if exitErr, ok := err.(*ssh.ExitError); ok {
			return exitErr.ExitStatus(), nil
		}
		return -1, errors.WrapWithCode(err, errors.ErrExec,
			"Failed to execute remote command",
			"Check the SSH connection to "+cmd.Host)
	}
	return 0, nil
}

// Close tears down all cached connections.
func (r *SSHRunner) Close() {
	for key, client := range r.clients {
		_ = client.Close()
		delete(r.clients, key)
	}
}

func (r *SSHRunner) client(user, host string) (*ssh.Client, error) {
	key := user + "@" + host
	if client, ok := r.clients[key]; ok {
		return client, nil
	}

	address := net.JoinHostPort(host, org.Port(host))
	config := &ssh.ClientConfig{
		User:            user,
		Auth:            authMethods(),
		HostKeyCallback: hostKeyCallback(),
		Timeout:         r.Timeout,
	}

	client, err := ssh.Dial("tcp", address, config)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Can't connect to %s", key),
			"Check the host is reachable and your keys are loaded: ssh-add -l")
	}
	r.clients[key] = client
	return client, nil
}

// authMethods builds the auth chain: ssh-agent first, then the default
// identity files.
func authMethods() []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return methods
	}
	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		path := filepath.Join(home, ".ssh", name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			log.Debug("skipping unreadable key %s: %v", path, err)
			continue
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	return methods
}

// hostKeyCallback verifies against ~/.ssh/known_hosts when available.
func hostKeyCallback() ssh.HostKeyCallback {
	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, ".ssh", "known_hosts")
		if callback, err := knownhosts.New(path); err == nil {
			return callback
		}
	}
	log.Warn("no usable known_hosts file, skipping host key verification")
	return ssh.InsecureIgnoreHostKey()
}
