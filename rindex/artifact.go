package rindex

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"lukechampine.com/blake3"

	"github.com/bebop/rindex/alphabet"
	"github.com/bebop/rindex/rlbwt"
)

// artifactMagic and artifactVersion identify the persisted index format
// (spec.md §6.1's concrete envelope, per SPEC_FULL.md): a magic-number and
// version header in the style of grailbio-bio's
// encoding/pam/pamutil.ShardIndexMagic, so Load can reject a foreign or
// incompatible file before touching any array.
const (
	artifactMagic   uint64 = 0x7372_6978_2e72_6964 // "srix.rid" packed
	artifactVersion uint32 = 1
)

// ErrArtifactCorrupt is spec.md §7's ArtifactCorrupt condition: the magic,
// version, or trailing checksum don't match, so Load refuses to return a
// partially-built Index.
var ErrArtifactCorrupt = errors.New("rindex: artifact is corrupt or unsupported")

// Serialize writes idx to w in the persisted artifact format: a header
// (magic, version, variant, compression flag), the index's component
// arrays, and a trailing blake3-256 checksum of everything that precedes
// it. When compress is true the component-array payload is zstd-compressed
// before the checksum is computed over it, per SPEC_FULL.md's optional `-z`
// path.
func Serialize(w io.Writer, idx *Index, compress bool) error {
	var payload bytes.Buffer
	if err := writePayload(&payload, idx); err != nil {
		return errors.Wrap(err, "rindex: encoding artifact payload")
	}

	body := payload.Bytes()
	if compress {
		compressed, err := zstdCompress(body)
		if err != nil {
			return errors.Wrap(err, "rindex: compressing artifact payload")
		}
		body = compressed
	}

	hasher := blake3.New(32, nil)
	out := io.MultiWriter(w, hasher)

	if err := binary.Write(out, binary.LittleEndian, artifactMagic); err != nil {
		return errors.Wrap(err, "rindex: writing artifact magic")
	}
	if err := binary.Write(out, binary.LittleEndian, artifactVersion); err != nil {
		return errors.Wrap(err, "rindex: writing artifact version")
	}
	if err := binary.Write(out, binary.LittleEndian, byte(idx.variant)); err != nil {
		return errors.Wrap(err, "rindex: writing artifact variant")
	}
	if err := binary.Write(out, binary.LittleEndian, compress); err != nil {
		return errors.Wrap(err, "rindex: writing artifact compression flag")
	}
	if err := binary.Write(out, binary.LittleEndian, uint64(len(body))); err != nil {
		return errors.Wrap(err, "rindex: writing artifact payload length")
	}
	if _, err := out.Write(body); err != nil {
		return errors.Wrap(err, "rindex: writing artifact payload")
	}

	if _, err := w.Write(hasher.Sum(nil)); err != nil {
		return errors.Wrap(err, "rindex: writing artifact checksum")
	}
	return nil
}

// writePayload encodes every component array spec.md §6.1 lists, in
// order: alphabet counts; the RLBWT's O(r) run structure; the sample
// array (and, for a subsampled variant, which run indices it covers);
// the (sub)mark positions and their mark→sample links; and, depending on
// variant, the valid-mark bits or valid-area lengths.
func writePayload(buf *bytes.Buffer, idx *Index) error {
	counts := idx.alpha.Counts()
	if err := writeCounts(buf, counts); err != nil {
		return err
	}

	heads, lens := idx.rl.HeadsAndLens()
	if err := writeBytes(buf, heads); err != nil {
		return err
	}
	if err := writeInts(buf, lens); err != nil {
		return err
	}

	if err := writeInts(buf, idx.rawSamples); err != nil {
		return err
	}
	if err := writeOptionalInts(buf, idx.keepRunIndices); err != nil {
		return err
	}
	if err := writeInts(buf, idx.markPositions); err != nil {
		return err
	}
	if err := writeInts(buf, idx.markToSample); err != nil {
		return err
	}
	if err := writeOptionalBools(buf, idx.validMark); err != nil {
		return err
	}
	if err := writeOptionalInts(buf, idx.validArea); err != nil {
		return err
	}
	return nil
}

// Load reads an artifact previously written by Serialize, verifying the
// header and trailing checksum before constructing an Index. It fails
// fast on any mismatch (spec.md §7's "no partial state" requirement) —
// the checksum is checked before a single component array is decoded.
func Load(r io.Reader) (*Index, error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "rindex: reading artifact")
	}
	return decodeArtifact(all)
}

// LoadMmap memory-maps path read-only and decodes the artifact directly
// from the mapped view, avoiding a full read into a freshly allocated
// []byte — the persisted arrays are read-only for the lifetime of the
// returned Index (spec.md §5's resource model), which is exactly what a
// read-only mmap provides. The caller must call the returned io.Closer
// once the Index is no longer needed, to unmap the file.
func LoadMmap(path string) (*Index, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "rindex: opening artifact for mmap")
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, nil, errors.Wrap(err, "rindex: mmapping artifact")
	}

	idx, err := decodeArtifact([]byte(m))
	if err != nil {
		m.Unmap()
		return nil, nil, err
	}
	return idx, closerFunc(m.Unmap), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func decodeArtifact(all []byte) (*Index, error) {
	const headerLen = 8 + 4 + 1 + 1 + 8 // magic, version, variant, compressed flag, payload length
	const checksumLen = 32

	if len(all) < headerLen+checksumLen {
		return nil, ErrArtifactCorrupt
	}

	body := all[:len(all)-checksumLen]
	trailer := all[len(all)-checksumLen:]

	hasher := blake3.New(32, nil)
	hasher.Write(body)
	if !bytes.Equal(hasher.Sum(nil), trailer) {
		return nil, ErrArtifactCorrupt
	}

	r := bytes.NewReader(body)

	var magic uint64
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil || magic != artifactMagic {
		return nil, ErrArtifactCorrupt
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil || version != artifactVersion {
		return nil, ErrArtifactCorrupt
	}
	var variantByte byte
	if err := binary.Read(r, binary.LittleEndian, &variantByte); err != nil {
		return nil, ErrArtifactCorrupt
	}
	var compressed bool
	if err := binary.Read(r, binary.LittleEndian, &compressed); err != nil {
		return nil, ErrArtifactCorrupt
	}
	var payloadLen uint64
	if err := binary.Read(r, binary.LittleEndian, &payloadLen); err != nil {
		return nil, ErrArtifactCorrupt
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, ErrArtifactCorrupt
	}

	if compressed {
		decompressed, err := zstdDecompress(payload)
		if err != nil {
			return nil, errors.Wrap(err, "rindex: decompressing artifact payload")
		}
		payload = decompressed
	}

	return decodePayload(Variant(variantByte), payload)
}

func decodePayload(variant Variant, payload []byte) (*Index, error) {
	r := bytes.NewReader(payload)

	counts, err := readCounts(r)
	if err != nil {
		return nil, err
	}
	alpha, err := alphabet.FromCounts(counts)
	if err != nil {
		return nil, errors.Wrap(err, "rindex: rebuilding alphabet")
	}

	heads, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	lens, err := readInts(r)
	if err != nil {
		return nil, err
	}
	rl, err := rlbwt.BuildFromRuns(alpha, heads, lens)
	if err != nil {
		return nil, errors.Wrap(err, "rindex: rebuilding RLBWT")
	}

	rawSamples, err := readInts(r)
	if err != nil {
		return nil, err
	}
	keepRunIndices, err := readOptionalInts(r)
	if err != nil {
		return nil, err
	}
	markPositions, err := readInts(r)
	if err != nil {
		return nil, err
	}
	markToSample, err := readInts(r)
	if err != nil {
		return nil, err
	}
	validMark, err := readOptionalBools(r)
	if err != nil {
		return nil, err
	}
	validArea, err := readOptionalInts(r)
	if err != nil {
		return nil, err
	}

	return NewFromComponents(variant, alpha, rl, rawSamples, keepRunIndices, markPositions, markToSample, validMark, validArea)
}

func zstdCompress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func zstdDecompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

func writeCounts(buf *bytes.Buffer, counts [256]int) error {
	var present []struct {
		ch    byte
		count int
	}
	for b := 0; b < 256; b++ {
		if counts[b] > 0 {
			present = append(present, struct {
				ch    byte
				count int
			}{byte(b), counts[b]})
		}
	}
	if err := binary.Write(buf, binary.LittleEndian, uint64(len(present))); err != nil {
		return err
	}
	for _, p := range present {
		if err := buf.WriteByte(p.ch); err != nil {
			return err
		}
		if err := binary.Write(buf, binary.LittleEndian, int64(p.count)); err != nil {
			return err
		}
	}
	return nil
}

func readCounts(r io.Reader) ([256]int, error) {
	var counts [256]int
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return counts, ErrArtifactCorrupt
	}
	for i := uint64(0); i < n; i++ {
		var ch byte
		if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
			return counts, ErrArtifactCorrupt
		}
		var count int64
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return counts, ErrArtifactCorrupt
		}
		counts[ch] = int(count)
	}
	return counts, nil
}

func writeInts(buf *bytes.Buffer, values []int) error {
	if err := binary.Write(buf, binary.LittleEndian, uint64(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := binary.Write(buf, binary.LittleEndian, int64(v)); err != nil {
			return err
		}
	}
	return nil
}

func readInts(r io.Reader) ([]int, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, ErrArtifactCorrupt
	}
	out := make([]int, n)
	for i := range out {
		var v int64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, ErrArtifactCorrupt
		}
		out[i] = int(v)
	}
	return out, nil
}

// writeOptionalInts distinguishes "no data" (the plain variant's absent
// keepRunIndices, or a non-valid-area variant's absent validArea) from an
// empty-but-present slice, via a leading present flag.
func writeOptionalInts(buf *bytes.Buffer, values []int) error {
	if values == nil {
		return binary.Write(buf, binary.LittleEndian, false)
	}
	if err := binary.Write(buf, binary.LittleEndian, true); err != nil {
		return err
	}
	return writeInts(buf, values)
}

func readOptionalInts(r io.Reader) ([]int, error) {
	var present bool
	if err := binary.Read(r, binary.LittleEndian, &present); err != nil {
		return nil, ErrArtifactCorrupt
	}
	if !present {
		return nil, nil
	}
	return readInts(r)
}

func writeOptionalBools(buf *bytes.Buffer, values []bool) error {
	if values == nil {
		return binary.Write(buf, binary.LittleEndian, false)
	}
	if err := binary.Write(buf, binary.LittleEndian, true); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint64(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readOptionalBools(r io.Reader) ([]bool, error) {
	var present bool
	if err := binary.Read(r, binary.LittleEndian, &present); err != nil {
		return nil, ErrArtifactCorrupt
	}
	if !present {
		return nil, nil
	}
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, ErrArtifactCorrupt
	}
	out := make([]bool, n)
	for i := range out {
		if err := binary.Read(r, binary.LittleEndian, &out[i]); err != nil {
			return nil, ErrArtifactCorrupt
		}
	}
	return out, nil
}

func writeBytes(buf *bytes.Buffer, values []byte) error {
	if err := binary.Write(buf, binary.LittleEndian, uint64(len(values))); err != nil {
		return err
	}
	_, err := buf.Write(values)
	return err
}

func readBytes(r io.Reader) ([]byte, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, ErrArtifactCorrupt
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, ErrArtifactCorrupt
	}
	return out, nil
}
