package appointment

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"agenda/internal/datekey"
)

// BlobKey is the single key the store occupies in the blob store.
const BlobKey = "appointments"

// CurrentSchema is written into every saved snapshot. Legacy snapshots (a
// bare DateKey -> appointments map with no envelope) are still readable.
const CurrentSchema = 1

// Store holds all appointments, bucketed by DateKey string in insertion
// order. Buckets never persist empty: removing the last appointment of a day
// deletes the bucket.
type Store struct {
	blobs   BlobStore
	buckets map[string][]Appointment
}

type snapshot struct {
	Schema       int                      `json:"schema"`
	Appointments map[string][]Appointment `json:"appointments"`
}

// NewStore creates an empty store persisted through blobs.
func NewStore(blobs BlobStore) *Store {
	return &Store{
		blobs:   blobs,
		buckets: make(map[string][]Appointment),
	}
}

// Load replaces the in-memory state with the persisted snapshot. A missing or
// unparsable blob initializes an empty store; Load never fails.
func (s *Store) Load() {
	s.buckets = make(map[string][]Appointment)

	data, ok := s.blobs.Get(BlobKey)
	if !ok {
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err == nil && snap.Appointments != nil {
		s.adopt(snap.Appointments)
		return
	}

	// Legacy shape: the blob is the bare bucket map with no envelope.
	var legacy map[string][]Appointment
	if err := json.Unmarshal(data, &legacy); err == nil {
		s.adopt(legacy)
	}
}

func (s *Store) adopt(buckets map[string][]Appointment) {
	for key, appts := range buckets {
		if _, err := datekey.Parse(key); err != nil {
			continue
		}
		if len(appts) == 0 {
			continue
		}
		for i := range appts {
			appts[i].Recurrence = NormalizeRule(string(appts[i].Recurrence))
		}
		s.buckets[key] = appts
	}
}

// Save serializes the full store to the blob store under BlobKey.
func (s *Store) Save() error {
	snap := snapshot{Schema: CurrentSchema, Appointments: s.buckets}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal appointments: %w", err)
	}
	if err := s.blobs.Put(BlobKey, data); err != nil {
		return fmt.Errorf("persist appointments: %w", err)
	}
	return nil
}

// Upsert appends the appointment to the date's bucket, or replaces it in
// place (keeping its position) when the id already exists there. The rule is
// normalized on the way in, so in-memory state always matches what a reload
// would produce.
func (s *Store) Upsert(key datekey.DateKey, a Appointment) {
	a.Recurrence = NormalizeRule(string(a.Recurrence))
	bucket := s.buckets[key.String()]
	for i, existing := range bucket {
		if existing.ID == a.ID {
			bucket[i] = a
			return
		}
	}
	s.buckets[key.String()] = append(bucket, a)
}

// Remove filters the appointment out of the date's bucket. Unknown dates and
// ids are no-ops. An emptied bucket is deleted.
func (s *Store) Remove(key datekey.DateKey, id int64) {
	ks := key.String()
	bucket, ok := s.buckets[ks]
	if !ok {
		return
	}

	kept := bucket[:0]
	for _, a := range bucket {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		delete(s.buckets, ks)
		return
	}
	s.buckets[ks] = kept
}

// ListFor returns the date's appointments in insertion order. A non-empty
// search term keeps only appointments whose description contains it,
// case-insensitively. Unknown dates yield nil, never an error.
func (s *Store) ListFor(key datekey.DateKey, searchTerm string) []Appointment {
	bucket := s.buckets[key.String()]
	if searchTerm == "" {
		return bucket
	}

	needle := strings.ToLower(searchTerm)
	var matched []Appointment
	for _, a := range bucket {
		if strings.Contains(strings.ToLower(a.Description), needle) {
			matched = append(matched, a)
		}
	}
	return matched
}

// Find looks up a single appointment by date and id.
func (s *Store) Find(key datekey.DateKey, id int64) (Appointment, bool) {
	for _, a := range s.buckets[key.String()] {
		if a.ID == id {
			return a, true
		}
	}
	return Appointment{}, false
}

// SetTime updates the time field of the matching appointment in place,
// leaving order and every other field untouched. It returns whether a
// matching appointment was found.
func (s *Store) SetTime(key datekey.DateKey, id int64, newTime string) bool {
	bucket := s.buckets[key.String()]
	for i := range bucket {
		if bucket[i].ID == id {
			bucket[i].Time = newTime
			return true
		}
	}
	return false
}

// IncrementViews bumps the view counter of the matching appointment. Unknown
// references are no-ops.
func (s *Store) IncrementViews(key datekey.DateKey, id int64) {
	bucket := s.buckets[key.String()]
	for i := range bucket {
		if bucket[i].ID == id {
			bucket[i].Views++
			return
		}
	}
}

// Dated pairs an appointment with the day it occupies.
type Dated struct {
	Key  datekey.DateKey
	Appt Appointment
}

// All returns every appointment sorted by date then bucket position, for
// export and listing.
func (s *Store) All() []Dated {
	keys := make([]datekey.DateKey, 0, len(s.buckets))
	for ks := range s.buckets {
		key, err := datekey.Parse(ks)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	var all []Dated
	for _, key := range keys {
		for _, a := range s.buckets[key.String()] {
			all = append(all, Dated{Key: key, Appt: a})
		}
	}
	return all
}

// Len reports the total number of stored appointments.
func (s *Store) Len() int {
	n := 0
	for _, bucket := range s.buckets {
		n += len(bucket)
	}
	return n
}
