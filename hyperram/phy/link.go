package phy

// A Frame is what the controller puts on the physical link during one core
// cycle: NumPhases bit-times on each DDR lane plus the non-DDR controls.
type Frame struct {
	// Cycle counts the frames emitted on the link, starting at 0.
	Cycle uint64

	ClkP [NumPhases]bool
	ClkN [NumPhases]bool
	CSn  bool

	// RstN is the reset line. It only exists when HasReset is set.
	HasReset bool
	RstN     bool

	DQ     [NumPhases]uint8
	DQOE   bool
	RWDS   [NumPhases]bool
	RWDSOE bool
}

// BitIndex returns the absolute index of a bit-time of the frame.
func (f Frame) BitIndex(phase int) uint64 {
	return f.Cycle*NumPhases + uint64(phase)
}

// Drive is what the device puts on the bidirectional lanes during the
// current frame. Each bit-time has its own enable.
type Drive struct {
	DQ     [NumPhases]uint8
	DQOE   [NumPhases]bool
	RWDS   [NumPhases]bool
	RWDSOE [NumPhases]bool
}

// Pads are the resolved values of the bidirectional lanes.
type Pads struct {
	DQ   [NumPhases]uint8
	RWDS [NumPhases]bool
}

// A Listener is notified when a new frame is on the link.
type Listener interface {
	NotifyRecv()
}

// A Link is the set of wires between the controller and the device.
type Link struct {
	frame     Frame
	drive     Drive
	valid     bool
	listeners []Listener
}

// NewLink creates an idle link.
func NewLink() *Link {
	return &Link{}
}

// AcceptListener registers a listener that is woken on every frame.
func (l *Link) AcceptListener(listener Listener) {
	l.listeners = append(l.listeners, listener)
}

// Emit puts a new frame on the link. The device drive of the previous frame
// is released.
func (l *Link) Emit(f Frame) {
	l.frame = f
	l.drive = Drive{}
	l.valid = true

	for _, listener := range l.listeners {
		listener.NotifyRecv()
	}
}

// Frame returns the frame currently on the link and whether any frame has
// been emitted.
func (l *Link) Frame() (Frame, bool) {
	return l.frame, l.valid
}

// DriveFromDevice sets what the device drives during the current frame.
func (l *Link) DriveFromDevice(d Drive) {
	l.drive = d
}

// DeviceDrive returns the device drive of the current frame.
func (l *Link) DeviceDrive() Drive {
	return l.drive
}

// Resolve returns the pad values. The controller wins while its enable is
// set; otherwise a lane carries the device drive, or zero when nobody
// drives it.
func (l *Link) Resolve() Pads {
	var p Pads

	for i := 0; i < NumPhases; i++ {
		switch {
		case l.frame.DQOE:
			p.DQ[i] = l.frame.DQ[i]
		case l.drive.DQOE[i]:
			p.DQ[i] = l.drive.DQ[i]
		}

		switch {
		case l.frame.RWDSOE:
			p.RWDS[i] = l.frame.RWDS[i]
		case l.drive.RWDSOE[i]:
			p.RWDS[i] = l.drive.RWDS[i]
		}
	}

	return p
}
