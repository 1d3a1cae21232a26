package vm

const (
	// DefaultFrameLocals is the number of local variables that can be stored
	// directly in the frame's fixed storage array, avoiding heap allocation.
	DefaultFrameLocals = 8

	// noFrame marks the end of a static chain.
	noFrame = -1
)

// frame is one activation record. Frames live in a fixed array on the
// VirtualMachine and link to each other by index.
type frame struct {
	// staticLink is the frame of the lexically enclosing scope.
	staticLink int
	// returnAddr is the caller's instruction pointer after the CALL.
	returnAddr int
	// callSite is the address of the CALL that created this frame.
	callSite int
	// entry is the address the frame started executing at.
	entry   int
	storage [DefaultFrameLocals]int64
	locals  []int64
}

func (f *frame) activate(staticLink, returnAddr, callSite, entry int) {
	f.staticLink = staticLink
	f.returnAddr = returnAddr
	f.callSite = callSite
	f.entry = entry
	f.locals = nil
}

// enter reserves count zeroed local slots.
func (f *frame) enter(count int) {
	if count <= DefaultFrameLocals {
		for i := 0; i < count; i++ {
			f.storage[i] = 0
		}
		f.locals = f.storage[:count]
		return
	}
	f.locals = make([]int64, count)
}
