// Package codecdetect inspects MP4 files for their video codec and geometry.
package codecdetect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecUnknown Codec = "unknown"
)

// ErrNoVideoTrack is returned when a file parses but carries no video track.
var ErrNoVideoTrack = errors.New("no video track found")

// Info describes the first video track of an MP4 file.
type Info struct {
	Codec       Codec
	Width       int
	Height      int
	Timescale   uint32
	SampleCount int
	Fragmented  bool
}

// ProbeFile probes the MP4 file at path.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Probe(f)
}

// ProbeBytes probes MP4 data held in memory.
func ProbeBytes(data []byte) (Info, error) {
	return Probe(bytes.NewReader(data))
}

// Probe parses an MP4 stream and describes its first video track.
// The reader is rewound to the start on success.
func Probe(reader io.ReadSeeker) (Info, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return Info{}, fmt.Errorf("decode mp4: %w", err)
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return Info{}, fmt.Errorf("seek: %w", err)
	}
	return Describe(mp4File)
}

// Describe reports the first video track of an already decoded file.
func Describe(mp4File *mp4.File) (Info, error) {
	trak := VideoTrak(mp4File)
	if trak == nil {
		return Info{}, ErrNoVideoTrack
	}

	info := Info{
		Codec:      trakCodec(trak),
		Fragmented: mp4File.IsFragmented(),
		Timescale:  trak.Mdia.Mdhd.Timescale,
	}
	if entry := SampleEntry(trak); entry != nil {
		info.Width = int(entry.Width)
		info.Height = int(entry.Height)
	}

	if stbl := trak.Mdia.Minf.Stbl; stbl.Stsz != nil {
		info.SampleCount = int(stbl.Stsz.SampleNumber)
	}
	if info.Fragmented {
		info.SampleCount += fragmentSampleCount(mp4File, trak.Tkhd.TrackID)
	}
	return info, nil
}

// DetectFromFile detects the video codec used in an MP4 file.
func DetectFromFile(path string) (Codec, error) {
	info, err := ProbeFile(path)
	if err != nil {
		return CodecUnknown, err
	}
	return info.Codec, nil
}

// VideoTrak returns the first track with a "vide" handler and a sample
// description, looking in the init segment first for fragmented files.
func VideoTrak(mp4File *mp4.File) *mp4.TrakBox {
	var moovs []*mp4.MoovBox
	if mp4File.Init != nil && mp4File.Init.Moov != nil {
		moovs = append(moovs, mp4File.Init.Moov)
	}
	if mp4File.Moov != nil {
		moovs = append(moovs, mp4File.Moov)
	}

	for _, moov := range moovs {
		for _, trak := range moov.Traks {
			if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
				continue
			}
			if trak.Mdia.Mdhd == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
				continue
			}
			return trak
		}
	}
	return nil
}

// SampleEntry returns the visual sample entry of a video track.
func SampleEntry(trak *mp4.TrakBox) *mp4.VisualSampleEntryBox {
	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		if entry, ok := child.(*mp4.VisualSampleEntryBox); ok {
			return entry
		}
	}
	return nil
}

func trakCodec(trak *mp4.TrakBox) Codec {
	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		switch child.Type() {
		case "avc1", "avc3":
			return CodecH264
		case "hvc1", "hev1":
			return CodecHEVC
		case "av01":
			return CodecAV1
		}
	}
	return CodecUnknown
}

func fragmentSampleCount(mp4File *mp4.File, trackID uint32) int {
	count := 0
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != trackID {
					continue
				}
				for _, trun := range traf.Truns {
					count += int(trun.SampleCount())
				}
			}
		}
	}
	return count
}
