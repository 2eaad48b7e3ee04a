// Package classdb persists computed isogeny classes in an embedded bbolt
// database, keyed by label. Records are CBOR encoded with the degree matrix
// integer-compressed, and carry the schema version so that incompatible
// databases are rejected instead of misread.
package classdb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/ronanh/intcomp"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/sync/errgroup"

	"github.com/xuluze/passagemath"
	"github.com/xuluze/passagemath/ec"
	"github.com/xuluze/passagemath/isogeny"
)

var (
	// ErrNotFound is returned when no class is stored under a label.
	ErrNotFound = errors.New("classdb: class not found")
	// ErrVersionMismatch is returned for records written by an incompatible
	// release.
	ErrVersionMismatch = errors.New("classdb: record written by an incompatible version")
)

var bucketClasses = []byte("classes")

// record is the stored form of a class. Curves are kept as their bracketed
// a-invariants, the filled degree matrix as a compressed row-major vector.
type record struct {
	Version string
	Label   string
	Curves  []string
	Matrix  []byte
	QF      [][][]int64 `cbor:",omitempty"`
}

// Store is a database of isogeny classes of rational curves.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("classdb: opening %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketClasses)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("classdb: creating bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a class under the given label. The class members must be
// rational Weierstrass models.
func (s *Store) Put(label string, cls *isogeny.Class) error {
	buf, err := encodeRecord(label, cls)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketClasses).Put([]byte(label), buf)
	})
}

// Get reconstructs the class stored under label. The result carries no
// witness isogenies.
func (s *Store) Get(label string) (*isogeny.Class, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketClasses).Get([]byte(label))
		if v == nil {
			return fmt.Errorf("%w: label %q", ErrNotFound, label)
		}
		raw = append(raw, v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

// Labels returns the stored labels in sorted order.
func (s *Store) Labels() ([]string, error) {
	var labels []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketClasses).ForEach(func(k, _ []byte) error {
			labels = append(labels, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(labels)
	return labels, nil
}

// Import stores several classes at once. Records are encoded concurrently
// and written in a single transaction; on any error nothing is stored.
func (s *Store) Import(classes map[string]*isogeny.Class) error {
	labels := make([]string, 0, len(classes))
	for label := range classes {
		labels = append(labels, label)
	}
	encoded := make([][]byte, len(labels))

	var g errgroup.Group
	for i, label := range labels {
		g.Go(func() error {
			buf, err := encodeRecord(label, classes[label])
			if err != nil {
				return err
			}
			encoded[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClasses)
		for i, label := range labels {
			if err := b.Put([]byte(label), encoded[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeRecord(label string, cls *isogeny.Class) ([]byte, error) {
	qf, err := cls.QFMatrix()
	if err != nil && !errors.Is(err, isogeny.ErrNotCM) {
		return nil, err
	}
	rec := record{
		Version: passagemath.Version.String(),
		Label:   label,
		Curves:  make([]string, cls.Len()),
		QF:      qf,
	}
	for i, c := range cls.Curves() {
		w, ok := c.(*ec.Weierstrass)
		if !ok {
			return nil, fmt.Errorf("classdb: curve %s is not a rational Weierstrass model", c)
		}
		rec.Curves[i] = w.String()
	}
	m, err := compressMatrix(cls.Matrix(true))
	if err != nil {
		return nil, err
	}
	rec.Matrix = m

	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := em.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, fmt.Errorf("classdb: encoding %s: %w", label, err)
	}
	return buf.Bytes(), nil
}

func decodeRecord(raw []byte) (*isogeny.Class, error) {
	var rec record
	if err := cbor.NewDecoder(bytes.NewReader(raw)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("classdb: decoding record: %w", err)
	}
	v, err := semver.Parse(rec.Version)
	if err != nil {
		return nil, fmt.Errorf("classdb: record version %q: %w", rec.Version, err)
	}
	if v.Major != passagemath.Version.Major {
		return nil, fmt.Errorf("%w: %s", ErrVersionMismatch, rec.Version)
	}

	curves := make([]ec.Curve, len(rec.Curves))
	for i, s := range rec.Curves {
		w, err := ec.ParseWeierstrass(s)
		if err != nil {
			return nil, fmt.Errorf("classdb: record %s: %w", rec.Label, err)
		}
		curves[i] = w
	}
	mat, err := decompressMatrix(rec.Matrix, len(curves))
	if err != nil {
		return nil, err
	}
	return isogeny.NewFromStored(curves, mat, rec.QF)
}

// compressMatrix packs the row-major matrix entries with integer
// compression, prefixed by the compressed length.
func compressMatrix(m [][]int64) ([]byte, error) {
	flat := make([]uint64, 0, len(m)*len(m))
	for _, row := range m {
		for _, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("classdb: negative matrix entry %d", v)
			}
			flat = append(flat, uint64(v))
		}
	}
	packed := intcomp.CompressUint64(flat, nil)
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, uint64(len(packed))); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, packed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressMatrix(raw []byte, n int) ([][]int64, error) {
	r := bytes.NewReader(raw)
	var length uint64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, fmt.Errorf("classdb: matrix header: %w", err)
	}
	packed := make([]uint64, length)
	if err := binary.Read(r, binary.LittleEndian, packed); err != nil {
		return nil, fmt.Errorf("classdb: matrix payload: %w", err)
	}
	flat := intcomp.UncompressUint64(packed, nil)
	if len(flat) != n*n {
		return nil, fmt.Errorf("classdb: matrix has %d entries for %d curves", len(flat), n)
	}
	mat := make([][]int64, n)
	for i := range mat {
		mat[i] = make([]int64, n)
		for j := range mat[i] {
			mat[i][j] = int64(flat[i*n+j])
		}
	}
	return mat, nil
}
