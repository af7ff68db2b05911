package eventlog

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/cbergoon/merkletree"
	"github.com/meshplus/unicity-bridge/pkg/model"
)

type recordContent struct {
	hash []byte
}

func newRecordContent(rec *model.Record) *recordContent {
	var seq [8]byte
	binary.LittleEndian.PutUint64(seq[:], rec.Seq)
	h := sha256.New()
	h.Write(seq[:])
	h.Write(rec.Data)

	return &recordContent{hash: h.Sum(nil)}
}

func (c *recordContent) CalculateHash() ([]byte, error) {
	return c.hash, nil
}

func (c *recordContent) Equals(other merkletree.Content) (bool, error) {
	return bytes.Equal(c.hash, other.(*recordContent).hash), nil
}

// Root returns the merkle root over every record in the log together with
// the number of records it covers. An empty log has a nil root.
func (l *Log) Root() ([]byte, uint64, error) {
	records := l.Range(1, 0)
	if len(records) == 0 {
		return nil, 0, nil
	}

	contents := make([]merkletree.Content, 0, len(records))
	for _, rec := range records {
		contents = append(contents, newRecordContent(rec))
	}

	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return nil, 0, err
	}

	return tree.MerkleRoot(), uint64(len(records)), nil
}
