package waveform

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"kitcrate/internal/services"
)

const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE
)

func wrapWAV(op, msg string, err error) error {
	return services.Wrap(services.ErrExtraction, "waveform", op, msg, err)
}

// DecodeWAVFile decodes a RIFF/WAVE file from disk.
func DecodeWAVFile(path string) (*Waveform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapWAV("read wav", path, err)
	}
	w, err := DecodeWAV(data)
	if err != nil {
		return nil, err
	}
	w.Path = path
	return w, nil
}

// DecodeWAV decodes RIFF/WAVE bytes. PCM 8/16/24/32-bit and 32-bit IEEE
// float sources are supported, including WAVE_FORMAT_EXTENSIBLE wrappers.
func DecodeWAV(data []byte) (*Waveform, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, wrapWAV("decode wav", "not a RIFF/WAVE stream", nil)
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bitDepth   int
		pcm        []byte
		haveFmt    bool
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if chunkSize < 0 || body+chunkSize > len(data) {
			// Tolerate a truncated final chunk; many exporters mis-write sizes.
			chunkSize = len(data) - body
		}
		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, wrapWAV("decode wav", "fmt chunk too short", nil)
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitDepth = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if format == wavFormatExtensible && chunkSize >= 40 {
				// Sub-format GUID leads with the equivalent format tag.
				format = binary.LittleEndian.Uint16(data[body+24 : body+26])
			}
			haveFmt = true
		case "data":
			pcm = data[body : body+chunkSize]
		}
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++ // chunks are word-aligned
		}
	}

	if !haveFmt {
		return nil, wrapWAV("decode wav", "missing fmt chunk", nil)
	}
	if pcm == nil {
		return nil, wrapWAV("decode wav", "missing data chunk", nil)
	}
	if channels <= 0 || sampleRate <= 0 {
		return nil, wrapWAV("decode wav", fmt.Sprintf("invalid fmt: channels=%d rate=%d", channels, sampleRate), nil)
	}

	samples, err := decodeWAVSamples(format, bitDepth, channels, pcm)
	if err != nil {
		return nil, err
	}

	return &Waveform{
		Container:  ContainerWAV,
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Samples:    samples,
	}, nil
}

func decodeWAVSamples(format uint16, bitDepth, channels int, pcm []byte) ([][]float64, error) {
	bytesPerSample := bitDepth / 8
	if bytesPerSample <= 0 {
		return nil, wrapWAV("decode wav", fmt.Sprintf("unsupported bit depth %d", bitDepth), nil)
	}
	frameSize := bytesPerSample * channels
	frames := len(pcm) / frameSize

	samples := make([][]float64, channels)
	for c := range samples {
		samples[c] = make([]float64, frames)
	}

	for frame := 0; frame < frames; frame++ {
		base := frame * frameSize
		for c := 0; c < channels; c++ {
			chunk := pcm[base+c*bytesPerSample:]
			var value float64
			switch {
			case format == wavFormatIEEEFloat && bitDepth == 32:
				bits := binary.LittleEndian.Uint32(chunk[:4])
				value = float64(math.Float32frombits(bits))
			case format == wavFormatPCM && bitDepth == 8:
				// 8-bit WAV is unsigned.
				value = (float64(chunk[0]) - 128) / 128
			case format == wavFormatPCM && bitDepth == 16:
				value = float64(int16(binary.LittleEndian.Uint16(chunk[:2]))) / 32768
			case format == wavFormatPCM && bitDepth == 24:
				raw := int32(chunk[0]) | int32(chunk[1])<<8 | int32(chunk[2])<<16
				if raw&0x800000 != 0 {
					raw |= ^int32(0xFFFFFF)
				}
				value = float64(raw) / 8388608
			case format == wavFormatPCM && bitDepth == 32:
				value = float64(int32(binary.LittleEndian.Uint32(chunk[:4]))) / 2147483648
			default:
				return nil, wrapWAV("decode wav", fmt.Sprintf("unsupported format %d at %d-bit", format, bitDepth), nil)
			}
			samples[c][frame] = value
		}
	}
	return samples, nil
}

// EncodeWAV writes w as PCM RIFF/WAVE at the given bit depth (16 or 24).
func EncodeWAV(out io.Writer, w *Waveform, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return services.Wrap(services.ErrConversion, "waveform", "encode wav", fmt.Sprintf("unsupported target depth %d", bitDepth), nil)
	}
	channels := w.Channels()
	if channels == 0 || w.SampleRate <= 0 {
		return services.Wrap(services.ErrConversion, "waveform", "encode wav", "empty waveform", nil)
	}

	frames := w.Frames()
	bytesPerSample := bitDepth / 8
	dataSize := frames * channels * bytesPerSample

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(wavFormatPCM))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(w.SampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(w.SampleRate*channels*bytesPerSample))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels*bytesPerSample))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitDepth))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataSize))

	for frame := 0; frame < frames; frame++ {
		for c := 0; c < channels; c++ {
			value := clampSample(w.Samples[c][frame])
			switch bitDepth {
			case 16:
				_ = binary.Write(&buf, binary.LittleEndian, int16(math.Round(value*32767)))
			case 24:
				scaled := int32(math.Round(value * 8388607))
				buf.WriteByte(byte(scaled))
				buf.WriteByte(byte(scaled >> 8))
				buf.WriteByte(byte(scaled >> 16))
			}
		}
	}

	if _, err := out.Write(buf.Bytes()); err != nil {
		return services.Wrap(services.ErrConversion, "waveform", "encode wav", "write stream", err)
	}
	return nil
}

func clampSample(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
