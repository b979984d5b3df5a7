package mocks

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"
)

// Placeholder parameter sets. They are not parsed by the container layer.
var (
	FixtureSPS = []byte{0x67, 0x42, 0xc0, 0x1e, 0xda, 0x02, 0x80}
	FixturePPS = []byte{0x68, 0xce, 0x3c, 0x80}
)

// MP4Fixture builds a fragmented H.264 MP4 in memory for demux and probe
// tests. Each entry in NALUs becomes one single-NALU sample; the first
// sample is marked as a sync sample.
type MP4Fixture struct {
	Width     int
	Height    int
	Timescale uint32
	NALUs     [][]byte
}

// Bytes encodes the fixture as ftyp + moov + moof/mdat.
func (f MP4Fixture) Bytes() ([]byte, error) {
	timescale := f.Timescale
	if timescale == 0 {
		timescale = 30000
	}

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "und")
	trak := init.Moov.Trak

	avcC := &mp4.AvcCBox{DecConfRec: avc.DecConfRec{
		AVCProfileIndication: 66,
		ProfileCompatibility: 0xc0,
		AVCLevelIndication:   30,
		SPSnalus:             [][]byte{FixtureSPS},
		PPSnalus:             [][]byte{FixturePPS},
		NoTrailingInfo:       true,
	}}
	entry := mp4.CreateVisualSampleEntryBox("avc1", uint16(f.Width), uint16(f.Height), avcC)
	trak.Mdia.Minf.Stbl.Stsd.AddChild(entry)
	trak.Tkhd.Width = mp4.Fixed32(f.Width << 16)
	trak.Tkhd.Height = mp4.Fixed32(f.Height << 16)

	frag, err := mp4.CreateFragment(1, trak.Tkhd.TrackID)
	if err != nil {
		return nil, fmt.Errorf("create fragment: %w", err)
	}

	dur := timescale / 30
	for i, nalu := range f.NALUs {
		data := make([]byte, 4+len(nalu))
		binary.BigEndian.PutUint32(data, uint32(len(nalu)))
		copy(data[4:], nalu)

		flags := mp4.NonSyncSampleFlags
		if i == 0 {
			flags = mp4.SyncSampleFlags
		}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(data)),
				Dur:   dur,
			},
			DecodeTime: uint64(i) * uint64(dur),
			Data:       data,
		})
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "avc1", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}
	if err := frag.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode fragment: %w", err)
	}
	return buf.Bytes(), nil
}
