package focus

// Detector observes one category of host signal while active.
// Deactivate must leave no listener attached and no timer pending, and no
// callback may run after it returns.
type Detector interface {
	Activate()
	Deactivate()
	Active() bool
}
