package corpus

import (
	"reflect"
	"testing"
)

func pool(n int) []Example {
	out := make([]Example, n)
	for i := range out {
		out[i] = Example{Source: []int32{int32(i + 2)}, Target: []int32{int32(i + 2)}}
	}
	return out
}

func TestAttachSimilarOrderAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	// line for example 5: self id, then retrievals 1, 9, 9
	var lines string
	for i := 0; i < 10; i++ {
		if i == 5 {
			lines += "5 1 9 9\n"
		} else {
			lines += "0\n"
		}
	}
	idx := writeFile(t, dir, "idx.txt", lines)
	data := pool(10)

	full, err := AttachSimilar(data, data, idx)
	if err != nil {
		t.Fatal(err)
	}
	want := []Example{data[1], data[9], data[9]}
	if !reflect.DeepEqual(full[5].Similar, want) {
		t.Errorf("similar set = %v, want %v", full[5].Similar, want)
	}
	if len(full[0].Similar) != 0 {
		t.Errorf("example 0 similar set = %v, want empty", full[0].Similar)
	}
}

func TestAttachSimilarLineCountMismatch(t *testing.T) {
	dir := t.TempDir()
	idx := writeFile(t, dir, "idx.txt", "0\n1\n")
	if _, err := AttachSimilar(pool(3), pool(3), idx); err == nil {
		t.Error("expected error for index line count mismatch")
	}
}

func TestAttachSimilarOutOfRange(t *testing.T) {
	dir := t.TempDir()
	idx := writeFile(t, dir, "idx.txt", "0 7\n1\n2\n")
	if _, err := AttachSimilar(pool(3), pool(3), idx); err == nil {
		t.Error("expected error for out-of-range retrieval index")
	}
}

func TestAttachSimilarBadInteger(t *testing.T) {
	dir := t.TempDir()
	idx := writeFile(t, dir, "idx.txt", "0 x\n1\n2\n")
	if _, err := AttachSimilar(pool(3), pool(3), idx); err == nil {
		t.Error("expected error for non-integer index")
	}
}

func TestAttachSimilarDifferentPool(t *testing.T) {
	dir := t.TempDir()
	idx := writeFile(t, dir, "idx.txt", "0 4\n")
	data := pool(1)
	reference := pool(5)

	full, err := AttachSimilar(data, reference, idx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(full[0].Similar, []Example{reference[4]}) {
		t.Errorf("similar set = %v, want pool example 4", full[0].Similar)
	}
}
