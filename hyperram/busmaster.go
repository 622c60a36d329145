package hyperram

import "github.com/sarchlab/hyperram/hyperram/bus"

// A BusMaster drives the host side of the core. Each cycle the component
// asks for the request, steps the sequencer, and hands back the response.
//
// A master that also has a Pending() int method keeps the component ticking
// while it holds work that is not on the bus yet.
type BusMaster interface {
	Drive() bus.Request
	Observe(rsp bus.Response)
}

type pendingReporter interface {
	Pending() int
}
