package store

import "fmt"

// Batch stages writes to several documents and applies them as one unit.
// A sale commit touches the item collection, a month bucket, two reports
// and a day counter; either all of those land or none do.
//
// Apply snapshots the prior value of every key before writing. If any
// write fails, the already-written keys are restored from the snapshot, so
// a storage failure never leaves partial effects visible. Callers hold the
// commit lock while applying, so nobody observes the intermediate state.
type Batch struct {
	puts []batchPut
}

type batchPut struct {
	key   string
	value any
}

func (b *Batch) Put(key string, v any) {
	b.puts = append(b.puts, batchPut{key: key, value: v})
}

func (b *Batch) Len() int { return len(b.puts) }

type priorDoc struct {
	key    string
	data   []byte
	absent bool
}

func (b *Batch) Apply(s Store) error {
	priors := make([]priorDoc, 0, len(b.puts))
	for _, p := range b.puts {
		data, err := s.ReadRaw(p.key)
		switch err {
		case nil:
			priors = append(priors, priorDoc{key: p.key, data: data})
		case ErrNotFound:
			priors = append(priors, priorDoc{key: p.key, absent: true})
		default:
			return fmt.Errorf("batch snapshot %q: %w", p.key, err)
		}
	}

	for i, p := range b.puts {
		if err := s.Write(p.key, p.value); err != nil {
			rollback(s, priors[:i])
			return fmt.Errorf("batch write %q: %w", p.key, err)
		}
	}
	return nil
}

func rollback(s Store, written []priorDoc) {
	// Restore in reverse order. Best effort: a failing restore leaves the
	// prior value of a later key in place, which the atomic file writes
	// make very unlikely.
	for i := len(written) - 1; i >= 0; i-- {
		p := written[i]
		if p.absent {
			_ = s.Delete(p.key)
			continue
		}
		_ = s.WriteRaw(p.key, p.data)
	}
}
