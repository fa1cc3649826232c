// SPDX-License-Identifier: MIT

package modconf

// DirResolver supplies the host-provided directory that config files are
// resolved against. Host runtimes that load mod components typically
// expose one fixed config root per installation.
type DirResolver interface {
	ConfigDir() (string, error)
}

// DirResolverFunc adapts a plain function to the DirResolver interface.
type DirResolverFunc func() (string, error)

// ConfigDir calls f.
func (f DirResolverFunc) ConfigDir() (string, error) { return f() }
