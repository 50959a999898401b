package store

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"slidecast/types"
)

// FileManager serves listings, deletion and export for rendered
// videos and their per-session image folders
type FileManager struct {
	OutputDir string
	ImagesDir string
	Meta      *MetadataStore
}

func NewFileManager(outputDir, imagesDir string, meta *MetadataStore) *FileManager {
	return &FileManager{OutputDir: outputDir, ImagesDir: imagesDir, Meta: meta}
}

// ListVideos returns every rendered video, newest first, with its run
// metadata attached when a record exists
func (m *FileManager) ListVideos() ([]types.FileInfo, error) {
	entries, err := os.ReadDir(m.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.FileInfo{}, nil
		}
		return nil, err
	}

	all, err := m.Meta.All()
	if err != nil {
		return nil, err
	}

	videos := make([]types.FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mp4") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}

		info := types.FileInfo{
			Filename:   e.Name(),
			FileType:   "video",
			Extension:  filepath.Ext(e.Name()),
			Size:       fi.Size(),
			SizeMB:     float64(fi.Size()) / (1024 * 1024),
			ModifiedAt: fi.ModTime(),
			URL:        "/outputs/" + e.Name(),
		}
		if meta, ok := all[e.Name()]; ok {
			info.SessionID = meta.SessionID
			info.Metadata = map[string]any{
				"prompt_template":        meta.PromptTemplateID,
				"image_model":            meta.ImageModel,
				"text_model":             meta.TextModel,
				"processing_mode":        meta.ProcessingMode,
				"total_images":           meta.TotalImages,
				"audio_duration":         meta.AudioDuration,
				"effects_enabled":        meta.EffectsEnabled,
				"gpu_enabled":            meta.GPUEnabled,
				"image_folder":           meta.ImageFolder,
				"images_per_paragraph":   meta.ImagesPerParagraph,
				"image_generation_delay": meta.ImageDelay,
			}
		}
		videos = append(videos, info)
	}

	sort.Slice(videos, func(i, j int) bool {
		return videos[i].ModifiedAt.After(videos[j].ModifiedAt)
	})
	return videos, nil
}

// ListSessionImages returns the generated images of one session in
// filename order
func (m *FileManager) ListSessionImages(session string) ([]types.FileInfo, error) {
	dir, err := m.sessionDir(session)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.FileInfo{}, nil
		}
		return nil, err
	}

	images := make([]types.FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		images = append(images, types.FileInfo{
			Filename:   e.Name(),
			SessionID:  session,
			FileType:   "image",
			Extension:  filepath.Ext(e.Name()),
			Size:       fi.Size(),
			SizeMB:     float64(fi.Size()) / (1024 * 1024),
			ModifiedAt: fi.ModTime(),
			URL:        fmt.Sprintf("/images/session_%s/%s", session, e.Name()),
		})
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Filename < images[j].Filename
	})
	return images, nil
}

// DeleteVideo removes the video, its metadata record and its session
// image folder
func (m *FileManager) DeleteVideo(filename string) error {
	if filename == "" || filename == "." || filename == ".." || filename != filepath.Base(filename) {
		return fmt.Errorf("%w: bad filename %q", types.ErrInvalidInput, filename)
	}

	path := filepath.Join(m.OutputDir, filename)
	if _, err := os.Stat(path); err != nil {
		return err
	}

	meta, hadMeta := m.Meta.Get(filename)
	if err := os.Remove(path); err != nil {
		return err
	}
	if err := m.Meta.Remove(filename); err != nil {
		return err
	}
	if hadMeta && meta.SessionID != "" {
		if dir, err := m.sessionDir(meta.SessionID); err == nil {
			os.RemoveAll(dir)
		}
	}
	return nil
}

// ZipSessionImages streams a zip archive of one session's images
func (m *FileManager) ZipSessionImages(session string, w io.Writer) error {
	dir, err := m.sessionDir(session)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		dst, err := zw.Create(e.Name())
		if err != nil {
			f.Close()
			return err
		}
		if _, err := io.Copy(dst, f); err != nil {
			f.Close()
			return err
		}
		f.Close()
	}
	return zw.Close()
}

// CleanupUploads removes upload leftovers older than maxAge. Uploads
// are deleted after each run, so anything old in there is debris from
// a crashed run.
func CleanupUploads(dir string, maxAge time.Duration) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil || fi.ModTime().After(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(dir, e.Name())) == nil {
			removed++
		}
	}
	return removed
}

// sessionDir validates the session id before touching the filesystem;
// ids come straight from URLs
func (m *FileManager) sessionDir(session string) (string, error) {
	if session == "" || strings.ContainsAny(session, `/\.`) {
		return "", fmt.Errorf("%w: bad session id %q", types.ErrInvalidInput, session)
	}
	return filepath.Join(m.ImagesDir, "session_"+session), nil
}
