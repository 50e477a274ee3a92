package snapshot_test

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/0glabs/0g-namespace/namespace"
	"github.com/0glabs/0g-namespace/namespace/snapshot"
)

func sampleTimes() namespace.Times {
	now := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	return namespace.Times{CreatedAt: now, ModifiedAt: now.Add(time.Hour), AccessedAt: now.Add(2 * time.Hour)}
}

func sampleNode() *snapshot.Node {
	file := snapshot.NewFileNode("testfile.txt", sampleTimes(), 1024, snapshot.ContentHash([]byte("x")), "/docs/testfile.txt")
	docs := snapshot.NewFolderNode("docs", sampleTimes(), []*snapshot.Node{file})
	return snapshot.NewFolderNode("/", sampleTimes(), []*snapshot.Node{docs})
}

func TestEncodeDecode(t *testing.T) {
	originalNode := sampleNode()

	encodedData, err := snapshot.Encode(originalNode)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decodedNode, err := snapshot.Decode(encodedData)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !reflect.DeepEqual(originalNode, decodedNode) {
		t.Errorf("expected nodes to be equal, but got %v and %v", originalNode, decodedNode)
	}
}

func TestFormatHasNoParent(t *testing.T) {
	encodedData, err := snapshot.Encode(sampleNode())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if bytes.Contains(encodedData, []byte("parent")) {
		t.Errorf("snapshot must not carry parent references")
	}

	for _, field := range []string{`"kind":"folder"`, `"kind":"file"`, `"createdAt"`, `"modifiedAt"`, `"accessedAt"`, `"children"`} {
		if !bytes.Contains(encodedData, []byte(field)) {
			t.Errorf("expected field %s in snapshot", field)
		}
	}
}

func TestInvalidMagicBytes(t *testing.T) {
	encodedData, err := snapshot.Encode(sampleNode())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Modify the magic bytes to simulate corruption
	encodedData[0] ^= 0xFF

	_, err = snapshot.Decode(encodedData)
	if err == nil || err.Error() != "invalid magic bytes" {
		t.Fatalf("expected error 'invalid magic bytes', got %v", err)
	}
}

func TestInvalidVersion(t *testing.T) {
	encodedData, err := snapshot.Encode(sampleNode())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Modify the version bytes to simulate an unsupported version
	encodedData[len(snapshot.CodecMagicBytes)] ^= 0xFF

	_, err = snapshot.Decode(encodedData)
	if err == nil || !bytes.Contains([]byte(err.Error()), []byte("unsupported codec version")) {
		t.Fatalf("expected error 'unsupported codec version', got %v", err)
	}
}

func TestTruncatedData(t *testing.T) {
	encodedData, err := snapshot.Encode(sampleNode())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	for _, size := range []int{0, 10, len(snapshot.CodecMagicBytes) + 1, len(snapshot.CodecMagicBytes) + 4, len(encodedData) - 1} {
		if _, err := snapshot.Decode(encodedData[:size]); err == nil {
			t.Errorf("expected error decoding %d bytes", size)
		}
	}
}

func TestNodeSearch(t *testing.T) {
	root := snapshot.NewFolderNode("/", sampleTimes(), []*snapshot.Node{
		snapshot.NewFileNode("b", sampleTimes(), 0, "", ""),
		snapshot.NewFileNode("C", sampleTimes(), 0, "", ""),
		snapshot.NewFileNode("a", sampleTimes(), 0, "", ""),
	})

	if root.Children[0].Name != "a" || root.Children[2].Name != "C" {
		t.Fatalf("children not ordered by name: %v", root.Children)
	}

	if node, found := root.Search("c"); !found || node.Name != "C" {
		t.Errorf("expected to find C, got %v", node)
	}

	if _, found := root.Search("d"); found {
		t.Errorf("unexpected child d")
	}

	if root.Count() != 4 {
		t.Errorf("expected 4 records, got %d", root.Count())
	}
}
