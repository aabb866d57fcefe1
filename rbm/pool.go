package rbm

import (
	"sync"
)

// pre-activation scratch vectors, pooled by length. Forward, Backward and
// FreeEnergy all materialize a W·v+bias intermediate of layer size.
var vecPool = make(map[int]*sync.Pool)

func borrowVector(n int) []float32 {
	if p, ok := vecPool[n]; ok {
		return p.Get().([]float32)
	}
	return make([]float32, n)
}

func returnVector(v []float32) {
	n := len(v)
	if _, ok := vecPool[n]; !ok {
		vecPool[n] = &sync.Pool{
			New: func() interface{} {
				return make([]float32, n)
			},
		}
	}
	vecPool[n].Put(v)
}
