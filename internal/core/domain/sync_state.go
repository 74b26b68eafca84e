package domain

const (
	// MaxCheckpoints is the number of most recent block hashes kept to let
	// the daemon find the fork point.
	MaxCheckpoints = 100
)

// SchedulerState is the lifecycle state of the sync scheduler.
type SchedulerState int

const (
	SchedulerStopped SchedulerState = iota
	SchedulerStarting
	SchedulerRunning
	SchedulerStopping
)

func (s SchedulerState) String() string {
	switch s {
	case SchedulerStopped:
		return "Stopped"
	case SchedulerStarting:
		return "Starting"
	case SchedulerRunning:
		return "Running"
	case SchedulerStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// CanTransitionTo returns whether moving from s to next is allowed.
func (s SchedulerState) CanTransitionTo(next SchedulerState) bool {
	switch s {
	case SchedulerStopped:
		return next == SchedulerStarting
	case SchedulerStarting:
		return next == SchedulerRunning || next == SchedulerStopped
	case SchedulerRunning:
		return next == SchedulerStopping
	case SchedulerStopping:
		return next == SchedulerStopped
	default:
		return false
	}
}

// SyncState is the block cursor of the wallet: the height of the last
// processed block and the hashes of the most recent ones.
type SyncState struct {
	Height      uint64
	Checkpoints []string
}

// IsNew returns whether the block at height has not been processed yet.
// Before the first block is processed Height is the scan start height.
func (s SyncState) IsNew(height uint64) bool {
	if len(s.Checkpoints) == 0 {
		return height >= s.Height
	}
	return height > s.Height
}

// NextHeight returns the height of the first block to fetch.
func (s SyncState) NextHeight() uint64 {
	if len(s.Checkpoints) == 0 {
		return s.Height
	}
	return s.Height + 1
}

// Advance moves the cursor to the given block. Blocks already processed are
// ignored, it returns whether the cursor moved.
func (s *SyncState) Advance(height uint64, hash string) bool {
	if !s.IsNew(height) {
		return false
	}
	s.Height = height
	s.Checkpoints = append(s.Checkpoints, hash)
	if len(s.Checkpoints) > MaxCheckpoints {
		s.Checkpoints = s.Checkpoints[len(s.Checkpoints)-MaxCheckpoints:]
	}
	return true
}

// CheckpointAt returns the hash recorded for the processed block at height,
// if it is still among the kept checkpoints.
func (s SyncState) CheckpointAt(height uint64) (string, bool) {
	if height > s.Height || len(s.Checkpoints) == 0 {
		return "", false
	}
	back := s.Height - height
	if back >= uint64(len(s.Checkpoints)) {
		return "", false
	}
	return s.Checkpoints[len(s.Checkpoints)-1-int(back)], true
}

// LastCheckpoints returns the known block hashes, most recent first.
func (s SyncState) LastCheckpoints() []string {
	out := make([]string, 0, len(s.Checkpoints))
	for i := len(s.Checkpoints) - 1; i >= 0; i-- {
		out = append(out, s.Checkpoints[i])
	}
	return out
}
