package jstack

// Elevator is the capability to run the dump tool as another user when
// the invoker does not own the target process.
type Elevator interface {
	// CanElevate reports whether the invoker may act as other users.
	CanElevate(invoker Identity) bool

	// Wrap rewrites a command line so it executes as owner.
	Wrap(owner, name string, args []string) (string, []string)
}

// SudoElevator elevates through sudo, available to the root identity.
type SudoElevator struct{}

// CanElevate implements Elevator.
func (SudoElevator) CanElevate(invoker Identity) bool {
	return invoker.IsRoot()
}

// Wrap implements Elevator.
func (SudoElevator) Wrap(owner, name string, args []string) (string, []string) {
	wrapped := append([]string{"-u", owner, name}, args...)
	return "sudo", wrapped
}
