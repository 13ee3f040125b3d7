package trainer

// Extension is one scheduled side effect of the training loop. Extensions
// fire inline on the loop thread, in registration order, whenever their
// trigger reports true for the just-finished iteration. Triggers depend on
// the iteration counter only, so one extension running long cannot shift
// another's cadence.
type Extension struct {
	Name    string
	Trigger func(iteration int) bool
	Run     func(t *Trainer) error
}

// Every returns a trigger firing at every positive multiple of k.
func Every(k int) func(int) bool {
	if k < 1 {
		k = 1
	}
	return func(iteration int) bool {
		return iteration%k == 0
	}
}

// Extend registers an extension. Registration order is execution order.
func (t *Trainer) Extend(e Extension) {
	t.extensions = append(t.extensions, e)
}
