package pointcloud

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
)

// ErrTruncatedRecord reports a KITTI-Velodyne file whose trailing bytes do
// not complete a full 16-byte XYZI record. Distinct from a clean EOF, which
// simply ends the load.
var ErrTruncatedRecord = errors.New("pointcloud: truncated XYZI record")

// kittiRecordSize is four little-endian float32 values: x, y, z, intensity.
const kittiRecordSize = 4 * 4

// SaveToTextFile writes the cloud as one whitespace-delimited line per
// point, "x y z" or "x y z intensity" depending on the cloud's channels,
// %f-formatted with no header. A failed save leaves an unreliable file.
func SaveToTextFile(cloud PointCloud, fn string) (err error) {
	f, err := os.Create(fn)
	if err != nil {
		return errors.Wrapf(err, "cannot create %q", fn)
	}
	defer func() {
		cerr := f.Close()
		err = multierr.Combine(err, cerr)
	}()

	w := bufio.NewWriter(f)
	xyzi, hasIntensity := cloud.(*XYZI)
	n := cloud.Size()
	for i := 0; i < n; i++ {
		x, y, z := cloud.GetPointFast(i)
		if hasIntensity {
			_, err = fmt.Fprintf(w, "%f %f %f %f\n", x, y, z, xyzi.intensity[i])
		} else {
			_, err = fmt.Fprintf(w, "%f %f %f\n", x, y, z)
		}
		if err != nil {
			return
		}
	}
	err = w.Flush()
	return
}

// LoadFromTextFile replaces the cloud's contents with points read from a
// whitespace-delimited text file. The parse is tolerant: reading stops at
// the first malformed line without reporting an error, matching the text
// writer's output being trusted only line by line. The cloud ends up
// marked modified.
func LoadFromTextFile(cloud PointCloud, fn string, logger golog.Logger) error {
	f, err := os.Open(fn)
	if err != nil {
		return errors.Wrapf(err, "cannot open %q", fn)
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	cloud.Clear()
	xyzi, hasIntensity := cloud.(*XYZI)
	fieldCount := 3
	if hasIntensity {
		fieldCount = 4
	}

	scanner := bufio.NewScanner(f)
	vals := make([]float64, 4)
	count := 0
scan:
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < fieldCount {
			break
		}
		for i := 0; i < fieldCount; i++ {
			vals[i], err = strconv.ParseFloat(fields[i], 32)
			if err != nil {
				break scan
			}
		}
		if hasIntensity {
			xyzi.InsertPointFastWithIntensity(
				float32(vals[0]), float32(vals[1]), float32(vals[2]), float32(vals[3]))
		} else {
			cloud.InsertPointFast(float32(vals[0]), float32(vals[1]), float32(vals[2]))
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "reading %q", fn)
	}
	cloud.MarkModified()
	logger.Debugf("loaded %d points from %q", count, fn)
	return nil
}

// SaveToKittiVelodyneFile writes the cloud as a sequence of 16-byte
// little-endian float32 x,y,z,intensity records. A ".gz" extension selects
// the gzip-compressed variant. Clouds without an intensity channel write 0.
func SaveToKittiVelodyneFile(cloud PointCloud, fn string) (err error) {
	f, err := os.Create(fn)
	if err != nil {
		return errors.Wrapf(err, "cannot create %q", fn)
	}
	defer func() {
		cerr := f.Close()
		err = multierr.Combine(err, cerr)
	}()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var gz *gzip.Writer
	if strings.HasSuffix(fn, ".gz") {
		gz = gzip.NewWriter(bw)
		w = gz
	}

	xyzi, hasIntensity := cloud.(*XYZI)
	buf := make([]byte, kittiRecordSize)
	n := cloud.Size()
	for i := 0; i < n; i++ {
		x, y, z := cloud.GetPointFast(i)
		var intensity float32
		if hasIntensity {
			intensity = xyzi.intensity[i]
		}
		binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(x))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(y))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(z))
		binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(intensity))
		if _, err = w.Write(buf); err != nil {
			return
		}
	}
	if gz != nil {
		if err = gz.Close(); err != nil {
			return
		}
	}
	err = bw.Flush()
	return
}

// LoadFromKittiVelodyneFile replaces the cloud's contents with the records
// of a KITTI-Velodyne binary file, transparently decompressing when fn ends
// in ".gz". A clean EOF on a record boundary ends the load; a partial
// trailing record returns ErrTruncatedRecord. The cloud ends up marked
// modified.
func LoadFromKittiVelodyneFile(cloud PointCloud, fn string, logger golog.Logger) error {
	f, err := os.Open(fn)
	if err != nil {
		return errors.Wrapf(err, "cannot open %q", fn)
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(fn, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return errors.Wrapf(err, "cannot open gzip stream %q", fn)
		}
		defer goutils.UncheckedErrorFunc(gz.Close)
		r = gz
	}

	cloud.Clear()
	cloud.Reserve(10000)
	xyzi, hasIntensity := cloud.(*XYZI)
	buf := make([]byte, kittiRecordSize)
	count := 0
	for {
		n, err := io.ReadFull(r, buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return errors.Wrapf(ErrTruncatedRecord, "%d bytes into record %d of %q", n, count, fn)
		}
		if err != nil {
			return errors.Wrapf(err, "reading %q", fn)
		}
		x := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))
		z := math.Float32frombits(binary.LittleEndian.Uint32(buf[8:]))
		intensity := math.Float32frombits(binary.LittleEndian.Uint32(buf[12:]))
		if hasIntensity {
			xyzi.InsertPointFastWithIntensity(x, y, z, intensity)
		} else {
			cloud.InsertPointFast(x, y, z)
		}
		count++
	}
	cloud.MarkModified()
	logger.Debugf("loaded %d points from %q", count, fn)
	return nil
}
