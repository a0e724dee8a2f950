package rxpatch

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/gordian-engine/rxepic/rxstream"
)

// patchEncMode is the CBOR encoder mode for patch logs.
// Encoding is canonical so identical patches produce identical bytes.
var patchEncMode cbor.EncMode

// patchDecMode decodes nested values as map[string]any
// and integers as int64, which decodeValue narrows to int,
// matching what [Diff] and [Apply] work with.
var patchDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	patchEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create patch CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:      cbor.DupMapKeyQuiet,
		IndefLength:    cbor.IndefLengthAllowed,
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}
	patchDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create patch CBOR decoder mode: %v", err))
	}
}

// Marshal encodes p as CBOR.
func Marshal(p Patch) ([]byte, error) {
	return patchEncMode.Marshal(p)
}

// Unmarshal decodes a CBOR-encoded patch.
//
// Values decode to the types a state built from Go literals holds:
// integers as int, floating point numbers as float64,
// maps as map[string]any and arrays as []any.
func Unmarshal(data []byte) (Patch, error) {
	var p Patch
	if err := patchDecMode.Unmarshal(data, &p); err != nil {
		return Patch{}, err
	}
	p.Value = decodeValue(p.Value)
	return p, nil
}

// decodeValue narrows the decoder's int64 integers to int, recursively.
func decodeValue(v any) any {
	switch v := v.(type) {
	case int64:
		if int64(int(v)) == v {
			return int(v)
		}
		return v
	case map[string]any:
		for k, child := range v {
			v[k] = decodeValue(child)
		}
		return v
	case []any:
		for i, child := range v {
			v[i] = decodeValue(child)
		}
		return v
	default:
		return v
	}
}

// Recorder writes every patch it observes to a CBOR stream.
// It is safe for concurrent use.
type Recorder struct {
	mu  sync.Mutex
	enc *cbor.Encoder

	n   int
	err error
}

// NewRecorder returns a Recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: patchEncMode.NewEncoder(w)}
}

// Observer returns an observer that encodes each patch.
// After the first write error, further patches are dropped;
// the error is available from [*Recorder.Err].
func (r *Recorder) Observer() rxstream.Observer[Patch] {
	return rxstream.Observer[Patch]{
		Next: r.record,
	}
}

func (r *Recorder) record(p Patch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return
	}

	if err := r.enc.Encode(p); err != nil {
		r.err = fmt.Errorf("recording patch %d: %w", r.n, err)
		return
	}
	r.n++
}

// Count returns the number of patches successfully written.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// ReadLog returns a cold stream of the patches in a log written by a [Recorder].
// Values are decoded as described on [Unmarshal].
// Each subscription decodes from the current position of rd,
// so a reader can only be consumed once.
//
// The stream completes at the end of the log
// and fails with the decoding error on malformed input.
// Decoding happens synchronously within Subscribe.
func ReadLog(rd io.Reader) *rxstream.Observable[Patch] {
	return rxstream.New(func(obs rxstream.Observer[Patch]) rxstream.Unsubscriber {
		dec := patchDecMode.NewDecoder(rd)

		for {
			var p Patch
			if err := dec.Decode(&p); err != nil {
				if errors.Is(err, io.EOF) {
					obs.Complete()
				} else {
					obs.Error(fmt.Errorf("decoding patch log: %w", err))
				}
				return nil
			}
			p.Value = decodeValue(p.Value)
			obs.Next(p)
		}
	})
}
