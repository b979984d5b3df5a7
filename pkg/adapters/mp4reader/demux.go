package mp4reader

import (
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/kitsune/pkg/adapters/codecdetect"
)

// track is the demuxed video track of an MP4 file: one Annex-B access
// unit per sample in decode order, parameter sets prepended to sync samples.
type track struct {
	info  codecdetect.Info
	units [][]byte
}

func demux(reader io.ReadSeeker) (*track, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	info, err := codecdetect.Describe(mp4File)
	if err != nil {
		return nil, err
	}
	if info.Codec != codecdetect.CodecH264 {
		return nil, fmt.Errorf("unsupported codec %s", info.Codec)
	}

	trak := codecdetect.VideoTrak(mp4File)
	paramSets := parameterSets(trak)

	var units [][]byte
	if mp4File.IsFragmented() {
		units, err = fragmentedUnits(mp4File, trak, paramSets)
	} else {
		units, err = progressiveUnits(trak, reader, paramSets)
	}
	if err != nil {
		return nil, err
	}

	if info.Width == 0 || info.Height == 0 {
		return nil, fmt.Errorf("video track has no dimensions")
	}
	return &track{info: info, units: units}, nil
}

// parameterSets returns the SPS and PPS of the track in Annex-B form.
func parameterSets(trak *mp4.TrakBox) []byte {
	entry := codecdetect.SampleEntry(trak)
	if entry == nil || entry.AvcC == nil {
		return nil
	}

	var out []byte
	for _, sps := range entry.AvcC.SPSnalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, sps...)
	}
	for _, pps := range entry.AvcC.PPSnalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, pps...)
	}
	return out
}

func accessUnit(sample []byte, keyframe bool, paramSets []byte) []byte {
	annexB := avccToAnnexB(sample)
	if !keyframe || len(paramSets) == 0 {
		return annexB
	}
	unit := make([]byte, len(paramSets)+len(annexB))
	copy(unit, paramSets)
	copy(unit[len(paramSets):], annexB)
	return unit
}

func fragmentedUnits(mp4File *mp4.File, trak *mp4.TrakBox, paramSets []byte) ([][]byte, error) {
	trackID := trak.Tkhd.TrackID

	trex := findTrex(mp4File, trackID)

	var units [][]byte
	first := true
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil || !hasTrack(frag, trackID) {
				continue
			}
			samples, err := frag.GetFullSamples(trex)
			if err != nil {
				return nil, fmt.Errorf("get samples: %w", err)
			}
			for _, sample := range samples {
				keyframe := first || sample.Flags == mp4.SyncSampleFlags
				units = append(units, accessUnit(sample.Data, keyframe, paramSets))
				first = false
			}
		}
	}
	return units, nil
}

func findTrex(mp4File *mp4.File, trackID uint32) *mp4.TrexBox {
	moov := mp4File.Moov
	if mp4File.Init != nil && mp4File.Init.Moov != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil || moov.Mvex == nil {
		return nil
	}
	for _, t := range moov.Mvex.Trexs {
		if t.TrackID == trackID {
			return t
		}
	}
	return nil
}

func hasTrack(frag *mp4.Fragment, trackID uint32) bool {
	for _, traf := range frag.Moof.Trafs {
		if traf.Tfhd.TrackID == trackID {
			return true
		}
	}
	return false
}

func progressiveUnits(trak *mp4.TrakBox, reader io.ReadSeeker, paramSets []byte) ([][]byte, error) {
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz == nil {
		return nil, fmt.Errorf("no stsz box found")
	}

	syncSamples := make(map[uint32]bool)
	if stbl.Stss != nil {
		for _, nr := range stbl.Stss.SampleNumber {
			syncSamples[nr] = true
		}
	}

	count := stbl.Stsz.SampleNumber
	units := make([][]byte, 0, count)
	for nr := uint32(1); nr <= count; nr++ {
		sample, err := sampleData(stbl, reader, nr)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", nr, err)
		}
		keyframe := len(syncSamples) == 0 || syncSamples[nr]
		units = append(units, accessUnit(sample, keyframe, paramSets))
	}
	return units, nil
}

// sampleData reads one sample of a progressive file via the chunk tables.
func sampleData(stbl *mp4.StblBox, reader io.ReadSeeker, nr uint32) ([]byte, error) {
	if stbl.Stsc == nil {
		return nil, fmt.Errorf("missing stsc box")
	}

	chunkNr, firstInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(nr))
	if err != nil {
		return nil, fmt.Errorf("chunk nr: %w", err)
	}

	var offset uint64
	switch {
	case stbl.Stco != nil:
		offset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return nil, fmt.Errorf("chunk offset: %w", err)
		}
	case stbl.Co64 != nil:
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return nil, fmt.Errorf("chunk nr %d out of range", chunkNr)
		}
		offset = stbl.Co64.ChunkOffset[chunkNr-1]
	default:
		return nil, fmt.Errorf("no stco or co64 box")
	}

	for s := uint32(firstInChunk); s < nr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}

	if _, err := reader.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}
	data := make([]byte, stbl.Stsz.GetSampleSize(int(nr)))
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return data, nil
}

// avccToAnnexB converts length-prefixed NAL units to start-code form.
// A truncated trailing NAL unit is dropped.
func avccToAnnexB(data []byte) []byte {
	var out []byte
	offset := 0
	for offset+4 <= len(data) {
		size := int(data[offset])<<24 | int(data[offset+1])<<16 |
			int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4
		if size < 0 || offset+size > len(data) {
			break
		}
		out = append(out, 0, 0, 0, 1)
		out = append(out, data[offset:offset+size]...)
		offset += size
	}
	return out
}
