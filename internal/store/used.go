package store

// Windows for the used-asset stores: local images reset per rubric when the
// pool is exhausted; remote photo ids keep a sliding window.
const (
	usedPhotosMax  = 300
	usedPhotosKeep = 250
)

// UsedImages tracks which local files have been posted per rubric, so an
// asset is not reused until its pool is exhausted.
type UsedImages struct {
	doc *JSON[map[string][]string]
}

func NewUsedImages(s DocStore) *UsedImages {
	return &UsedImages{doc: NewJSON(s, func() map[string][]string { return map[string][]string{} })}
}

// Used returns the filenames already posted for the rubric.
func (u *UsedImages) Used(rubric string) []string {
	return u.doc.Read()[rubric]
}

// Record marks file as used for the rubric; once every file of the pool has
// been used the rubric's list resets so rotation starts over.
func (u *UsedImages) Record(rubric, file string, poolSize int) error {
	_, err := u.doc.Update(func(m map[string][]string) map[string][]string {
		if m == nil {
			m = map[string][]string{}
		}
		m[rubric] = append(m[rubric], file)
		if len(m[rubric]) >= poolSize {
			m[rubric] = nil
		}
		return m
	})
	return err
}

// UsedPhotos suppresses repeats of remote stock-photo ids.
type UsedPhotos struct {
	doc *JSON[[]string]
}

func NewUsedPhotos(s DocStore) *UsedPhotos {
	return &UsedPhotos{doc: NewJSON(s, func() []string { return nil })}
}

// Seen reports whether the photo id was already posted.
func (u *UsedPhotos) Seen(id string) bool {
	for _, v := range u.doc.Read() {
		if v == id {
			return true
		}
	}
	return false
}

// Add records a posted photo id, trimming the window when it overflows.
func (u *UsedPhotos) Add(id string) error {
	_, err := u.doc.Update(func(ids []string) []string {
		ids = append(ids, id)
		if len(ids) > usedPhotosMax {
			ids = ids[len(ids)-usedPhotosKeep:]
		}
		return ids
	})
	return err
}
