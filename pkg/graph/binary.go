package graph

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/saferide/bikerouter/pkg/geo"
)

const (
	magicBytes    = "BKROUTER"
	formatVersion = uint32(1)
	maxNodes      = 10_000_000
	maxEdges      = 50_000_000
)

// fileHeader is the binary header written before the node and edge records.
type fileHeader struct {
	Magic    [8]byte
	Version  uint32
	NumNodes uint32
	NumEdges uint32
}

// Save serializes g to path: header, then one record per node, then one
// record per edge, then a trailing CRC32 of everything preceding it. Writes
// to a temp file and renames atomically so a crash never leaves a partial
// canonical graph on disk.
func (g *Graph) Save(path string) error {
	if len(g.nodes) > maxNodes {
		return fmt.Errorf("graph: %d nodes exceeds limit %d", len(g.nodes), maxNodes)
	}
	if len(g.edges) > maxEdges {
		return fmt.Errorf("graph: %d edges exceeds limit %d", len(g.edges), maxEdges)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	bw := bufio.NewWriter(f)
	cw := &crc32Writer{w: bw, hash: crc32.NewIEEE()}

	hdr := fileHeader{
		Version:  formatVersion,
		NumNodes: uint32(len(g.nodes)),
		NumEdges: uint32(len(g.edges)),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(cw, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for id, n := range g.nodes {
		if err := writeNode(cw, id, n); err != nil {
			return fmt.Errorf("write node %d: %w", id, err)
		}
	}
	for key, attrs := range g.edges {
		if err := writeEdge(cw, key, attrs); err != nil {
			return fmt.Errorf("write edge (%d,%d,%d): %w", key.U, key.V, key.K, err)
		}
	}

	checksum := cw.hash.Sum32()
	if err := binary.Write(bw, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Load reads a graph previously written by Save, validating the magic
// bytes, version and trailing CRC32 before returning it.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	cr := &crc32Reader{r: br, hash: crc32.NewIEEE()}

	var hdr fileHeader
	if err := binary.Read(cr, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != formatVersion {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumNodes > maxNodes {
		return nil, fmt.Errorf("NumNodes %d exceeds limit %d", hdr.NumNodes, maxNodes)
	}
	if hdr.NumEdges > maxEdges {
		return nil, fmt.Errorf("NumEdges %d exceeds limit %d", hdr.NumEdges, maxEdges)
	}

	g := New()
	for i := uint32(0); i < hdr.NumNodes; i++ {
		id, n, err := readNode(cr)
		if err != nil {
			return nil, fmt.Errorf("read node %d: %w", i, err)
		}
		if err := g.AddNode(*n); err != nil {
			return nil, fmt.Errorf("add node %d: %w", id, err)
		}
	}
	for i := uint32(0); i < hdr.NumEdges; i++ {
		key, attrs, err := readEdge(cr)
		if err != nil {
			return nil, fmt.Errorf("read edge %d: %w", i, err)
		}
		if err := g.AddEdge(key.U, key.V, key.K, *attrs); err != nil {
			return nil, fmt.Errorf("add edge %d: %w", i, err)
		}
	}

	expectedCRC := cr.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(br, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	return g, nil
}

func writeNode(w io.Writer, id int64, n *Node) error {
	if err := binary.Write(w, binary.LittleEndian, id); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, n.Lat); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, n.Lon); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, int32(n.StreetCount))
}

func readNode(r io.Reader) (int64, *Node, error) {
	var id int64
	if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
		return 0, nil, err
	}
	n := &Node{ID: id}
	if err := binary.Read(r, binary.LittleEndian, &n.Lat); err != nil {
		return 0, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &n.Lon); err != nil {
		return 0, nil, err
	}
	var streetCount int32
	if err := binary.Read(r, binary.LittleEndian, &streetCount); err != nil {
		return 0, nil, err
	}
	n.StreetCount = int(streetCount)
	return id, n, nil
}

func writeEdge(w io.Writer, key edgeKey, a *EdgeAttrs) error {
	if err := binary.Write(w, binary.LittleEndian, key.U); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, key.V); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(key.K)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, a.Length); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, a.Bearing); err != nil {
		return err
	}
	if err := writeString(w, a.Highway); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(a.MaxSpeed)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, a.HasMaxSpeed); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(a.CyclewayLevel)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, a.OneWay); err != nil {
		return err
	}
	if err := writeString(w, a.Name); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(a.Geometry))); err != nil {
		return err
	}
	for _, p := range a.Geometry {
		if err := binary.Write(w, binary.LittleEndian, p.Lat); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, p.Lon); err != nil {
			return err
		}
	}
	return nil
}

func readEdge(r io.Reader) (edgeKey, *EdgeAttrs, error) {
	var key edgeKey
	var k32 int32
	a := &EdgeAttrs{}

	if err := binary.Read(r, binary.LittleEndian, &key.U); err != nil {
		return key, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &key.V); err != nil {
		return key, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &k32); err != nil {
		return key, nil, err
	}
	key.K = int(k32)

	if err := binary.Read(r, binary.LittleEndian, &a.Length); err != nil {
		return key, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &a.Bearing); err != nil {
		return key, nil, err
	}
	highway, err := readString(r)
	if err != nil {
		return key, nil, err
	}
	a.Highway = highway

	var maxSpeed int32
	if err := binary.Read(r, binary.LittleEndian, &maxSpeed); err != nil {
		return key, nil, err
	}
	a.MaxSpeed = int(maxSpeed)
	if err := binary.Read(r, binary.LittleEndian, &a.HasMaxSpeed); err != nil {
		return key, nil, err
	}

	var cyclewayLevel int32
	if err := binary.Read(r, binary.LittleEndian, &cyclewayLevel); err != nil {
		return key, nil, err
	}
	a.CyclewayLevel = int(cyclewayLevel)
	if err := binary.Read(r, binary.LittleEndian, &a.OneWay); err != nil {
		return key, nil, err
	}

	name, err := readString(r)
	if err != nil {
		return key, nil, err
	}
	a.Name = name

	var geomLen int32
	if err := binary.Read(r, binary.LittleEndian, &geomLen); err != nil {
		return key, nil, err
	}
	if geomLen > 0 {
		a.Geometry = make([]geo.LatLon, geomLen)
		for i := range a.Geometry {
			if err := binary.Read(r, binary.LittleEndian, &a.Geometry[i].Lat); err != nil {
				return key, nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &a.Geometry[i].Lon); err != nil {
				return key, nil, err
			}
		}
	}

	return key, a, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// crc32Writer/crc32Reader wrap an io.Writer/io.Reader while accumulating a
// running CRC32 checksum, as in the teacher's canonical-graph binary format.

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
