package app

import (
	"context"
	"io/fs"
	"time"

	"github.com/azqeurio/sd-to-c-sort/internal/domain"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	CopyFile(src, dst string) error
	Remove(path string) error
	// HashFile returns a content digest used for the identical-content skip.
	HashFile(path string) (string, error)
	// Writable probes that files can be created under dir.
	Writable(dir string) error
}

// MetadataReader extracts capture metadata from an image file. Fields that
// cannot be read come back zero-valued; an error means nothing usable was
// extracted at all.
type MetadataReader interface {
	Read(ctx context.Context, path string) (ImageMeta, error)
}

type ImageMeta struct {
	TakenAt time.Time
	Camera  string
	Lens    string
}

// DecisionAction is the answer to a collision prompt.
type DecisionAction string

const (
	DecisionRename DecisionAction = "rename"
	DecisionSkip   DecisionAction = "skip"
	DecisionStop   DecisionAction = "stop"
)

// CollisionPrompt is handed to the DecisionProvider when the duplicate
// policy is ask. RenamedPath is the path a rename answer would use.
type CollisionPrompt struct {
	Source      domain.FileMeta
	DestPath    string
	RenamedPath string
}

type Decision struct {
	Action DecisionAction
	// ApplyToAll makes the action a standing rule for the rest of the run.
	ApplyToAll bool
}

// DecisionProvider answers collision prompts synchronously. The pipeline
// does not advance past the colliding file until Resolve returns.
type DecisionProvider interface {
	Resolve(ctx context.Context, prompt CollisionPrompt) (Decision, error)
}
