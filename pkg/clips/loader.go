package clips

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/teslashibe/go-sway/pkg/movement"
	"github.com/teslashibe/go-sway/pkg/rig"
)

//go:embed data/*.json
var embeddedClips embed.FS

// LoadEmbedded loads a clip from the embedded data.
func LoadEmbedded(name string) (*Clip, error) {
	data, err := embeddedClips.ReadFile("data/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Parse(name, data)
}

// LoadFromFile loads a clip from a JSON file on disk. The clip is named
// after the file.
func LoadFromFile(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clip: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	return Parse(name, data)
}

// LoadFromDirectory loads every *.json clip in dir.
func LoadFromDirectory(dir string) ([]*Clip, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list clip files: %w", err)
	}

	var clips []*Clip
	for _, file := range files {
		clip, err := LoadFromFile(file)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// ListEmbedded returns the names of all embedded clips.
func ListEmbedded() ([]string, error) {
	entries, err := embeddedClips.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("list embedded clips: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return names, nil
}

// Parse decodes clip JSON. Timestamps must be non-decreasing and every bone
// name must be known.
func Parse(name string, data []byte) (*Clip, error) {
	var raw ClipData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidClip, name, err)
	}

	if len(raw.Time) == 0 || len(raw.Frames) == 0 {
		return nil, fmt.Errorf("%w: %s has no keyframes", ErrInvalidClip, name)
	}
	if len(raw.Time) != len(raw.Frames) {
		return nil, fmt.Errorf("%w: %s has %d timestamps for %d keyframes",
			ErrInvalidClip, name, len(raw.Time), len(raw.Frames))
	}

	clip := &Clip{
		Name:        name,
		Description: raw.Description,
		Loop:        raw.Loop,
		Offsets:     make([]movement.Pose, len(raw.Frames)),
		Timestamps:  make([]time.Duration, len(raw.Time)),
	}

	t0 := raw.Time[0]
	for i, ts := range raw.Time {
		if i > 0 && ts < raw.Time[i-1] {
			return nil, fmt.Errorf("%w: %s timestamps go backwards at keyframe %d", ErrInvalidClip, name, i)
		}
		clip.Timestamps[i] = time.Duration((ts - t0) * float64(time.Second))
	}
	clip.Duration = clip.Timestamps[len(clip.Timestamps)-1]

	for i, frame := range raw.Frames {
		var pose movement.Pose
		for boneName, e := range frame {
			b, ok := rig.ParseBone(boneName)
			if !ok {
				return nil, fmt.Errorf("%w: %s keyframe %d names unknown bone %q", ErrInvalidClip, name, i, boneName)
			}
			pose = pose.With(b, rig.FromEuler(e[0], e[1], e[2]))
		}
		clip.Offsets[i] = pose
	}

	// A bone named in any keyframe is driven by all of them, at identity
	// where a keyframe leaves it out.
	var used [rig.BoneCount]bool
	for _, pose := range clip.Offsets {
		for b, m := range pose.Mask {
			used[b] = used[b] || m
		}
	}
	for i := range clip.Offsets {
		for b := rig.Bone(0); b < rig.BoneCount; b++ {
			if used[b] && !clip.Offsets[i].Mask[b] {
				clip.Offsets[i] = clip.Offsets[i].With(b, rig.Identity())
			}
		}
	}
	return clip, nil
}
