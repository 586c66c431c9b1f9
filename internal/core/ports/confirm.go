package ports

// ConfirmFunc asks the user to confirm a destructive step. It returns false
// when the step should not be taken.
type ConfirmFunc func(prompt string) bool

// AlwaysConfirm accepts every prompt without asking.
func AlwaysConfirm(string) bool { return true }
