package domain

import "fmt"

// GroupMode selects the top-level folder label.
type GroupMode string

const (
	GroupByCamera GroupMode = "camera"
	GroupByLens   GroupMode = "lens"
)

func ParseGroupMode(s string) (GroupMode, error) {
	switch GroupMode(s) {
	case GroupByCamera, GroupByLens:
		return GroupMode(s), nil
	}
	return "", fmt.Errorf("invalid group mode %q (want camera or lens)", s)
}

// DuplicatePolicy decides what happens when a destination path is taken.
type DuplicatePolicy string

const (
	PolicySkip   DuplicatePolicy = "skip"
	PolicyRename DuplicatePolicy = "rename"
	PolicyAsk    DuplicatePolicy = "ask"
)

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case PolicySkip, PolicyRename, PolicyAsk:
		return DuplicatePolicy(s), nil
	}
	return "", fmt.Errorf("invalid duplicate policy %q (want skip, rename or ask)", s)
}

// TransferMode selects copy or move semantics.
type TransferMode string

const (
	ModeCopy TransferMode = "copy"
	ModeMove TransferMode = "move"
)

func ParseTransferMode(s string) (TransferMode, error) {
	switch TransferMode(s) {
	case ModeCopy, ModeMove:
		return TransferMode(s), nil
	}
	return "", fmt.Errorf("invalid transfer mode %q (want copy or move)", s)
}
