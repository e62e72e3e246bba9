package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/azqeurio/sd-to-c-sort/internal/domain"
)

// ResolutionAction is what the resolver decided for one file.
type ResolutionAction int

const (
	ActionProceed ResolutionAction = iota
	ActionRenamed
	ActionSkip
	ActionStop
)

type Resolution struct {
	DestPath string
	Action   ResolutionAction
	Detail   string
}

// Resolver enforces destination-path uniqueness for one run. A path counts
// as taken when a file already exists there on disk or when an earlier file
// in the same run reserved it. Resolve must be called before a transfer is
// dispatched; the reservation is the serialization point that keeps
// concurrent transfers off the same path.
type Resolver struct {
	FS            FileSystem
	Policy        domain.DuplicatePolicy
	Decider       DecisionProvider
	SkipIdentical bool

	reserved map[string]bool
	standing DecisionAction
}

func NewResolver(fsys FileSystem, policy domain.DuplicatePolicy, decider DecisionProvider, skipIdentical bool) *Resolver {
	return &Resolver{
		FS:            fsys,
		Policy:        policy,
		Decider:       decider,
		SkipIdentical: skipIdentical,
		reserved:      map[string]bool{},
	}
}

func (r *Resolver) Resolve(ctx context.Context, meta domain.FileMeta, dest string) (Resolution, error) {
	onDisk, err := r.FS.Exists(dest)
	if err != nil {
		return Resolution{}, err
	}

	if !onDisk && !r.reserved[dest] {
		r.reserved[dest] = true
		return Resolution{DestPath: dest, Action: ActionProceed}, nil
	}

	// Identical content on disk beats any policy. Reserved-only collisions
	// have nothing to hash yet, so the policy decides those.
	if onDisk && r.SkipIdentical {
		same, hashErr := r.sameContent(meta.SourcePath, dest)
		if hashErr == nil && same {
			return Resolution{DestPath: dest, Action: ActionSkip, Detail: "identical content already at destination"}, nil
		}
	}

	switch r.Policy {
	case domain.PolicyRename:
		renamed := r.reserveRenamed(dest)
		return Resolution{DestPath: renamed, Action: ActionRenamed, Detail: fmt.Sprintf("renamed to %s", filepath.Base(renamed))}, nil
	case domain.PolicyAsk:
		return r.ask(ctx, meta, dest)
	default:
		return Resolution{DestPath: dest, Action: ActionSkip, Detail: "destination already occupied"}, nil
	}
}

func (r *Resolver) ask(ctx context.Context, meta domain.FileMeta, dest string) (Resolution, error) {
	if r.standing == "" {
		if r.Decider == nil {
			// Headless default: never hang waiting for a prompt nobody answers.
			return Resolution{DestPath: dest, Action: ActionSkip, Detail: "no collision prompt attached"}, nil
		}

		decision, err := r.Decider.Resolve(ctx, CollisionPrompt{
			Source:      meta,
			DestPath:    dest,
			RenamedPath: r.nextFree(dest),
		})
		if err != nil {
			return Resolution{DestPath: dest, Action: ActionSkip, Detail: "collision prompt unavailable"}, nil
		}
		if decision.ApplyToAll {
			r.standing = decision.Action
		}
		return r.apply(decision.Action, dest)
	}
	return r.apply(r.standing, dest)
}

func (r *Resolver) apply(action DecisionAction, dest string) (Resolution, error) {
	switch action {
	case DecisionRename:
		renamed := r.reserveRenamed(dest)
		return Resolution{DestPath: renamed, Action: ActionRenamed, Detail: fmt.Sprintf("renamed to %s", filepath.Base(renamed))}, nil
	case DecisionStop:
		return Resolution{DestPath: dest, Action: ActionStop, Detail: "stopped at collision prompt"}, nil
	default:
		return Resolution{DestPath: dest, Action: ActionSkip, Detail: "skipped at collision prompt"}, nil
	}
}

func (r *Resolver) reserveRenamed(dest string) string {
	renamed := r.nextFree(dest)
	r.reserved[renamed] = true
	return renamed
}

// nextFree appends the smallest unused numeric suffix before the extension:
// IMG_0001.JPG, IMG_0001_1.JPG, IMG_0001_2.JPG, ...
func (r *Resolver) nextFree(dest string) string {
	ext := filepath.Ext(dest)
	base := strings.TrimSuffix(dest, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if r.reserved[candidate] {
			continue
		}
		// A stat error counts as taken: handing out a path we could not
		// verify would let the transfer overwrite whatever is there.
		exists, err := r.FS.Exists(candidate)
		if err != nil || exists {
			continue
		}
		return candidate
	}
}

func (r *Resolver) sameContent(src, dst string) (bool, error) {
	srcHash, err := r.FS.HashFile(src)
	if err != nil {
		return false, err
	}
	dstHash, err := r.FS.HashFile(dst)
	if err != nil {
		return false, err
	}
	return srcHash == dstHash, nil
}
