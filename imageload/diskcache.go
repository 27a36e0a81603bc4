package imageload

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
)

// Disk cache entry layout, little endian:
//
//	magic   [4]byte "PLXC"
//	version uint8
//	flags   uint8   bit 0: payload stored uncompressed
//	width   uint32
//	height  uint32
//	rawLen  uint32  length of the RGBA pixel data
//	payload         lz4 block of the pixel data, or the raw pixels
const (
	cacheVersion   = 1
	flagRaw        = 1
	cacheHeaderLen = 4 + 1 + 1 + 4 + 4 + 4
	cacheExt       = ".plx"
)

var cacheMagic = [4]byte{'P', 'L', 'X', 'C'}

var (
	ErrNotCached    = errors.New("not cached")
	ErrCorruptCache = errors.New("corrupt cache entry")
)

// DiskCache stores decoded images as lz4-compressed RGBA, keyed by url
type DiskCache struct {
	dir string
}

// NewDiskCache creates dir if missing
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+cacheExt)
}

// Get returns the cached image for key, ErrNotCached when absent
func (c *DiskCache) Get(key string) (*image.RGBA, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}
	return decodeEntry(data)
}

// Put stores img under key, written to a temp file and renamed into place
func (c *DiskCache) Put(key string, img *image.RGBA) error {
	data, err := encodeEntry(img)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, "put-*")
	if err != nil {
		return fmt.Errorf("cache temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cache write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache close: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache rename: %w", err)
	}
	return nil
}

func encodeEntry(img *image.RGBA) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	// Pack rows contiguously, Stride may exceed 4*w for sub-images
	raw := make([]byte, 4*w*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(raw[y*4*w:(y+1)*4*w], img.Pix[off:off+4*w])
	}

	payload := make([]byte, lz4.CompressBlockBound(len(raw)))
	n, err := lz4.CompressBlock(raw, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	var flags uint8
	if n == 0 || n >= len(raw) {
		// Incompressible
		payload, flags = raw, flagRaw
	} else {
		payload = payload[:n]
	}

	var buf bytes.Buffer
	buf.Grow(cacheHeaderLen + len(payload))
	buf.Write(cacheMagic[:])
	buf.WriteByte(cacheVersion)
	buf.WriteByte(flags)
	binary.Write(&buf, binary.LittleEndian, uint32(w))
	binary.Write(&buf, binary.LittleEndian, uint32(h))
	binary.Write(&buf, binary.LittleEndian, uint32(len(raw)))
	buf.Write(payload)
	return buf.Bytes(), nil
}

func decodeEntry(data []byte) (*image.RGBA, error) {
	if len(data) < cacheHeaderLen || !bytes.Equal(data[:4], cacheMagic[:]) {
		return nil, fmt.Errorf("%w: bad header", ErrCorruptCache)
	}
	if data[4] != cacheVersion {
		return nil, fmt.Errorf("%w: version %d", ErrCorruptCache, data[4])
	}
	flags := data[5]
	w := int(binary.LittleEndian.Uint32(data[6:10]))
	h := int(binary.LittleEndian.Uint32(data[10:14]))
	rawLen := int(binary.LittleEndian.Uint32(data[14:18]))
	if err := checkDimensions(w, h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCache, err)
	}
	if rawLen != 4*w*h {
		return nil, fmt.Errorf("%w: size %dx%d len %d", ErrCorruptCache, w, h, rawLen)
	}
	payload := data[cacheHeaderLen:]

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if flags&flagRaw != 0 {
		if len(payload) != rawLen {
			return nil, fmt.Errorf("%w: raw payload %d bytes", ErrCorruptCache, len(payload))
		}
		copy(img.Pix, payload)
		return img, nil
	}

	n, err := lz4.UncompressBlock(payload, img.Pix)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", ErrCorruptCache, err)
	}
	if n != rawLen {
		return nil, fmt.Errorf("%w: short payload %d/%d", ErrCorruptCache, n, rawLen)
	}
	return img, nil
}
