package ports

// LayerSink receives encoded layers from a session.
//
// OnEncodedLayer is called synchronously on the encoding goroutine, once per
// layer and in layer order. data is only valid for the duration of the call;
// implementations that retain it must copy. Implementations must not call
// back into the session that invoked them.
type LayerSink interface {
	OnEncodedLayer(data []byte, keyFrame bool)
}

// LayerSinkFunc is a function adapter for the LayerSink interface.
type LayerSinkFunc func(data []byte, keyFrame bool)

// OnEncodedLayer implements LayerSink.
func (f LayerSinkFunc) OnEncodedLayer(data []byte, keyFrame bool) {
	f(data, keyFrame)
}
