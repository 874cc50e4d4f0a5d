package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"gallerytour/internal/models/db_models"
	"gallerytour/internal/repositories"
	"gallerytour/pkg/logger"
)

// ManifestOptions is either a choice list (single/multi) or a likert
// {min,max} range, depending on the question type.
type ManifestOptions struct {
	Choices []string
	Min     int
	Max     int
}

func (o *ManifestOptions) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		return value.Decode(&o.Choices)
	case yaml.MappingNode:
		var r struct {
			Min int `yaml:"min"`
			Max int `yaml:"max"`
		}
		if err := value.Decode(&r); err != nil {
			return err
		}
		o.Min, o.Max = r.Min, r.Max
		return nil
	}
	return fmt.Errorf("unsupported options node kind %d", value.Kind)
}

// LikertRange falls back to 1..5 when the manifest leaves it out.
func (o *ManifestOptions) LikertRange() (int, int) {
	if o == nil || (o.Min == 0 && o.Max == 0) {
		return 1, 5
	}
	return o.Min, o.Max
}

// ManifestQuestion is one entry of the selfeval or exhibition-feedback
// question manifest.
type ManifestQuestion struct {
	ID       string           `yaml:"id"`
	Type     string           `yaml:"type"`
	Text     string           `yaml:"text"`
	Options  *ManifestOptions `yaml:"options"`
	Required bool             `yaml:"required"`
}

type exhibitYAML struct {
	Slug            string  `yaml:"slug"`
	Title           string  `yaml:"title"`
	TextMD          string  `yaml:"text_md"`
	Audio           *string `yaml:"audio"`
	AudioTranscript *string `yaml:"audio_transcript"`
	MasterImage     *string `yaml:"master_image"`
	Images          []struct {
		Path string `yaml:"path"`
		Alt  string `yaml:"alt"`
	} `yaml:"images"`
	Questions []struct {
		Text     string    `yaml:"text"`
		Type     string    `yaml:"type"`
		Options  yaml.Node `yaml:"options"`
		Required bool      `yaml:"required"`
	} `yaml:"questions"`
}

type manifestFile struct {
	Questions []ManifestQuestion `yaml:"questions"`
}

// ContentServiceInterface is the catalog boundary: it syncs YAML
// content into the store at startup, owns the authoritative slug set
// and computes tour navigation over it.
type ContentServiceInterface interface {
	SyncFromDir(ctx context.Context) (int, error)
	SelfevalQuestions() []ManifestQuestion
	FeedbackQuestions() []ManifestQuestion
	ExhibitBySlug(ctx context.Context, slug string) (*db_models.Exhibit, error)
	FirstSlug(ctx context.Context) (string, error)
	Previous(ctx context.Context, slug string) (string, error)
	Next(ctx context.Context, slug string) (string, error)
}

type ContentService struct {
	exhibitRepo repositories.ExhibitRepositoryInterface
	contentDir  string
	log         *logger.Logger

	validSlugs        map[string]struct{}
	selfevalQuestions []ManifestQuestion
	feedbackQuestions []ManifestQuestion
}

func NewContentService(exhibitRepo repositories.ExhibitRepositoryInterface, contentDir string, log *logger.Logger) ContentServiceInterface {
	return &ContentService{
		exhibitRepo: exhibitRepo,
		contentDir:  contentDir,
		log:         log,
		validSlugs:  map[string]struct{}{},
	}
}

// SyncFromDir loads exhibit YAML files into an empty catalog and the
// question manifests into memory. Exhibit identity is by slug; files
// define the known-valid slug set even when the database insert is
// skipped. Returns the number of exhibit files inserted.
func (s *ContentService) SyncFromDir(ctx context.Context) (int, error) {
	s.loadManifests()

	files, err := exhibitFiles(filepath.Join(s.contentDir, "exhibits"))
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		s.log.Warn("no exhibit content files found", "dir", s.contentDir)
		return 0, nil
	}

	parsed := make([]*db_models.Exhibit, 0, len(files))
	for _, file := range files {
		exhibit, err := parseExhibitFile(file)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", file, err)
		}
		s.validSlugs[exhibit.Slug] = struct{}{}
		parsed = append(parsed, exhibit)
	}

	existing, err := s.exhibitRepo.CountExhibits(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		s.log.Info("content already loaded, skipping sync", "exhibits", existing)
		return 0, nil
	}

	for _, exhibit := range parsed {
		if err := s.exhibitRepo.CreateWithChildren(ctx, exhibit); err != nil {
			return 0, err
		}
	}
	s.log.Info("content loaded", "exhibits", len(parsed))
	return len(parsed), nil
}

func (s *ContentService) loadManifests() {
	s.selfevalQuestions = loadManifest(filepath.Join(s.contentDir, "selfeval.yml"), nil)
	s.feedbackQuestions = loadManifest(filepath.Join(s.contentDir, "exhibition_feedback.yml"), fallbackFeedbackQuestions())
}

func loadManifest(path string, fallback []ManifestQuestion) []ManifestQuestion {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}
	var mf manifestFile
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return fallback
	}
	return mf.Questions
}

func fallbackFeedbackQuestions() []ManifestQuestion {
	return []ManifestQuestion{
		{
			ID:       "exhibition_rating",
			Type:     string(db_models.QuestionLikert),
			Text:     "How did you like the exhibition?",
			Options:  &ManifestOptions{Min: 1, Max: 5},
			Required: true,
		},
		{
			ID:       "closing_thoughts",
			Type:     string(db_models.QuestionText),
			Text:     "Anything else you want to tell us?",
			Required: false,
		},
	}
}

func (s *ContentService) SelfevalQuestions() []ManifestQuestion {
	return s.selfevalQuestions
}

func (s *ContentService) FeedbackQuestions() []ManifestQuestion {
	return s.feedbackQuestions
}

func (s *ContentService) ExhibitBySlug(ctx context.Context, slug string) (*db_models.Exhibit, error) {
	return s.exhibitRepo.GetBySlug(ctx, slug)
}

func (s *ContentService) FirstSlug(ctx context.Context) (string, error) {
	ordered, err := s.orderedSlugs(ctx)
	if err != nil || len(ordered) == 0 {
		return "", err
	}
	return ordered[0], nil
}

func (s *ContentService) Previous(ctx context.Context, slug string) (string, error) {
	return s.neighbor(ctx, slug, -1)
}

func (s *ContentService) Next(ctx context.Context, slug string) (string, error) {
	return s.neighbor(ctx, slug, +1)
}

func (s *ContentService) neighbor(ctx context.Context, slug string, step int) (string, error) {
	ordered, err := s.orderedSlugs(ctx)
	if err != nil {
		return "", err
	}
	for i, candidate := range ordered {
		if candidate == slug {
			j := i + step
			if j < 0 || j >= len(ordered) {
				return "", nil
			}
			return ordered[j], nil
		}
	}
	return "", nil
}

// orderedSlugs is the traversal order: order_index with slug as the
// tie-break, restricted to slugs the catalog still knows about so a
// stale database row never becomes a navigation target.
func (s *ContentService) orderedSlugs(ctx context.Context) ([]string, error) {
	exhibits, err := s.exhibitRepo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(exhibits))
	for _, e := range exhibits {
		if len(s.validSlugs) > 0 {
			if _, ok := s.validSlugs[e.Slug]; !ok {
				continue
			}
		}
		slugs = append(slugs, e.Slug)
	}
	return slugs, nil
}

func exhibitFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	yml, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, err
	}
	yaml2, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	files := append(yml, yaml2...)
	sort.Strings(files)
	return files, nil
}

func parseExhibitFile(path string) (*db_models.Exhibit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data exhibitYAML
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	if data.Slug == "" {
		return nil, fmt.Errorf("missing slug")
	}

	exhibit := &db_models.Exhibit{
		Slug:            data.Slug,
		Title:           data.Title,
		TextMD:          data.TextMD,
		AudioPath:       data.Audio,
		AudioTranscript: data.AudioTranscript,
		MasterImage:     data.MasterImage,
		OrderIndex:      orderFromFilename(filepath.Base(path)),
	}

	for idx, img := range data.Images {
		exhibit.Images = append(exhibit.Images, db_models.Image{
			Path:      img.Path,
			AltText:   img.Alt,
			SortOrder: idx,
		})
	}

	for idx, q := range data.Questions {
		qType, ok := db_models.ParseQuestionType(strings.ToLower(q.Type))
		if !ok {
			return nil, fmt.Errorf("unknown question type: %s", q.Type)
		}
		question := db_models.Question{
			Text:      q.Text,
			Type:      qType,
			Required:  q.Required,
			SortOrder: idx,
		}
		if !q.Options.IsZero() {
			options, err := yamlNodeToJSON(&q.Options)
			if err != nil {
				return nil, fmt.Errorf("question %q options: %w", q.Text, err)
			}
			question.OptionsJSON = options
		}
		exhibit.Questions = append(exhibit.Questions, question)
	}

	return exhibit, nil
}

// orderFromFilename extracts the numeric prefix: "01_room-1.yml" -> 1.
// Unparsable prefixes sort to 0.
func orderFromFilename(name string) int {
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return 0
	}
	order, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return order
}

func yamlNodeToJSON(node *yaml.Node) (datatypes.JSON, error) {
	var decoded interface{}
	if err := node.Decode(&decoded); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(decoded)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
