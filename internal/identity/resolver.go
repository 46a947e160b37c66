package identity

import (
	"os"
	"path/filepath"
)

// NodesSubdir is the subdirectory of the simulation base directory that
// holds per-node record files, one file per identity.
const NodesSubdir = "Nodes"

// Options carries the startup inputs that select a node's record file.
// All three are optional; Resolve decides what they mean together.
type Options struct {
	ConfigPath string // explicit record file path (--config)
	Identifier string // canonical node identifier (--uuid)
	BaseDir    string // simulation base directory (--directory)
}

// Resolution is the outcome of record path resolution.
type Resolution struct {
	Path        string   // record file path
	Identity    Identity // the node's identity, when one was involved
	HasIdentity bool
}

// Resolve decides the record file path from the startup inputs. Three
// modes, in precedence order:
//
//  1. An explicit config path is used as given if it exists; with a base
//     directory it is also tried relative to that directory. Neither
//     existing is a path-not-found error.
//  2. An identifier together with a base directory names the file
//     <dir>/Nodes/<identifier>. The identifier is validated before the
//     path is composed, and the file must already exist.
//  3. Anything less is an insufficient-arguments error. A node never
//     invents an identity on its own; creating one is an explicit
//     operation (see NewNodePath).
//
// Every error here is fatal at startup.
func Resolve(opts Options) (Resolution, error) {
	if opts.ConfigPath != "" {
		if pathExists(opts.ConfigPath) {
			return Resolution{Path: opts.ConfigPath}, nil
		}
		tried := opts.ConfigPath
		if opts.BaseDir != "" {
			joined := filepath.Join(opts.BaseDir, opts.ConfigPath)
			if pathExists(joined) {
				return Resolution{Path: joined}, nil
			}
			tried = joined
		}
		return Resolution{}, NewPathNotFoundError(tried)
	}

	if opts.Identifier != "" && opts.BaseDir != "" {
		id, err := Parse(opts.Identifier)
		if err != nil {
			return Resolution{}, err
		}
		// The canonical rendering names the file, so an uppercase
		// identifier still finds the record our tools created.
		path := filepath.Join(opts.BaseDir, NodesSubdir, id.String())
		if !pathExists(path) {
			return Resolution{}, NewPathNotFoundError(path)
		}
		return Resolution{Path: path, Identity: id, HasIdentity: true}, nil
	}

	return Resolution{}, NewInsufficientArgumentsError()
}

// NewNodePath composes the record destination for a new node. With an
// empty explicitID a fresh random identity is generated; otherwise the
// given identifier is validated and used. The returned path is a
// destination to create and is not required to exist.
func NewNodePath(baseDir, explicitID string) (Resolution, error) {
	var id Identity
	var err error
	if explicitID != "" {
		id, err = Parse(explicitID)
	} else {
		id, err = New()
	}
	if err != nil {
		return Resolution{}, err
	}

	return Resolution{
		Path:        filepath.Join(baseDir, NodesSubdir, id.String()),
		Identity:    id,
		HasIdentity: true,
	}, nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
