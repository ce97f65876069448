package axon

// Frame exposes the local fluctuation frame to the external tests.
var Frame = (*Axon).frame
