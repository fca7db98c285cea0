package legacyimport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dvstream/catalog/internal/models"
)

// docID is a Mongo _id. ObjectIDs keep their 24-hex form so previously
// shared links keep resolving.
type docID string

func (d *docID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.ObjectID:
		*d = docID(rv.ObjectID().Hex())
	case bsontype.String:
		*d = docID(rv.StringValue())
	case bsontype.Null, bsontype.Undefined:
		*d = ""
	default:
		return fmt.Errorf("unsupported _id type %s", t)
	}
	return nil
}

// genreField accepts the historical genre encodings: an array, a single
// comma-separated string, or nothing.
type genreField []string

func (g *genreField) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*g = genreField{}
	case bsontype.String:
		*g = genreField(models.SplitGenres(rv.StringValue()))
	case bsontype.Array:
		var list []string
		if err := rv.Unmarshal(&list); err != nil {
			return fmt.Errorf("invalid genre array: %w", err)
		}
		*g = genreField(models.NormalizeGenres(list))
	default:
		return fmt.Errorf("unsupported genre type %s", t)
	}
	return nil
}

// intField accepts numbers of any BSON width and numeric strings. Anything
// else, including empty strings, decodes as absent.
type intField struct {
	Value int
	Valid bool
}

func (n *intField) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	*n = intField{}
	switch t {
	case bsontype.Int32:
		n.Value, n.Valid = int(rv.Int32()), true
	case bsontype.Int64:
		n.Value, n.Valid = int(rv.Int64()), true
	case bsontype.Double:
		if f := rv.Double(); f == math.Trunc(f) && !math.IsInf(f, 0) {
			n.Value, n.Valid = int(f), true
		}
	case bsontype.String:
		if v, err := strconv.Atoi(strings.TrimSpace(rv.StringValue())); err == nil {
			n.Value, n.Valid = v, true
		}
	}
	return nil
}

func (n intField) ptr() *int {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

type movieDoc struct {
	ID            docID                 `bson:"_id"`
	Title         string                `bson:"title"`
	Description   string                `bson:"description"`
	Genre         genreField            `bson:"genre"`
	Year          intField              `bson:"year"`
	Poster        string                `bson:"poster"`
	PreviewImages []string              `bson:"previewImages"`
	Downloads     *models.LegacyLinks   `bson:"downloads"`
	DownloadLinks []models.DownloadLink `bson:"downloadLinks"`
	CreatedAt     time.Time             `bson:"createdAt"`
	UpdatedAt     time.Time             `bson:"updatedAt"`
}

type episodeDoc struct {
	ID            docID                 `bson:"_id"`
	Title         string                `bson:"title"`
	EpisodeNumber intField              `bson:"episodeNumber"`
	Downloads     *models.LegacyLinks   `bson:"downloads"`
	DownloadLinks []models.DownloadLink `bson:"downloadLinks"`
}

type seriesDoc struct {
	ID                 docID                 `bson:"_id"`
	Title              string                `bson:"title"`
	Description        string                `bson:"description"`
	Genre              genreField            `bson:"genre"`
	Year               intField              `bson:"year"`
	Poster             string                `bson:"poster"`
	PreviewImages      []string              `bson:"previewImages"`
	BatchLinks         *models.LegacyLinks   `bson:"batchLinks"`
	BatchDownloadLinks []models.DownloadLink `bson:"batchDownloadLinks"`
	Episodes           []episodeDoc          `bson:"episodes"`
	CreatedAt          time.Time             `bson:"createdAt"`
	UpdatedAt          time.Time             `bson:"updatedAt"`
}

type settingsDoc struct {
	ActiveDomain     *string `bson:"activeDomain"`
	StableURL        *string `bson:"stableUrl"`
	TelegramChatID   *string `bson:"telegramChatId"`
	TelegramBotToken *string `bson:"telegramBotToken"`
}

// timestamps fills missing Mongoose timestamps. The ObjectID creation time
// is the best estimate; otherwise fall back to now.
func timestamps(id docID, created, updated, now time.Time) (time.Time, time.Time) {
	if created.IsZero() {
		created = now
		if oid, err := primitive.ObjectIDFromHex(string(id)); err == nil {
			created = oid.Timestamp()
		}
	}
	if updated.IsZero() {
		updated = created
	}
	return created.UTC().Truncate(time.Millisecond), updated.UTC().Truncate(time.Millisecond)
}

func legacyOrNil(l *models.LegacyLinks) *models.LegacyLinks {
	if l == nil || l.IsEmpty() {
		return nil
	}
	return l
}

func (d movieDoc) toMovie(now time.Time) (*models.Movie, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("movie %q has no _id", d.Title)
	}
	created, updated := timestamps(d.ID, d.CreatedAt, d.UpdatedAt, now)
	return &models.Movie{
		ID:              string(d.ID),
		Type:            models.TypeMovie,
		Title:           d.Title,
		Description:     d.Description,
		Genre:           []string(d.Genre),
		Year:            d.Year.ptr(),
		Poster:          d.Poster,
		PreviewImages:   d.PreviewImages,
		DownloadLinks:   d.DownloadLinks,
		LegacyDownloads: legacyOrNil(d.Downloads),
		CreatedAt:       created,
		UpdatedAt:       updated,
	}, nil
}

func (d seriesDoc) toSeries(now time.Time) (*models.Series, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("series %q has no _id", d.Title)
	}
	created, updated := timestamps(d.ID, d.CreatedAt, d.UpdatedAt, now)
	sr := &models.Series{
		ID:                 string(d.ID),
		Type:               models.TypeSeries,
		Title:              d.Title,
		Description:        d.Description,
		Genre:              []string(d.Genre),
		Year:               d.Year.ptr(),
		Poster:             d.Poster,
		PreviewImages:      d.PreviewImages,
		BatchDownloadLinks: d.BatchDownloadLinks,
		LegacyBatchLinks:   legacyOrNil(d.BatchLinks),
		CreatedAt:          created,
		UpdatedAt:          updated,
	}
	for _, e := range d.Episodes {
		id := string(e.ID)
		if id == "" {
			id = xid.New().String()
		}
		sr.Episodes = append(sr.Episodes, &models.Episode{
			ID:              id,
			Title:           e.Title,
			EpisodeNumber:   e.EpisodeNumber.ptr(),
			DownloadLinks:   e.DownloadLinks,
			LegacyDownloads: legacyOrNil(e.Downloads),
		})
	}
	return sr, nil
}

func (d settingsDoc) toInput() models.SettingsInput {
	return models.SettingsInput{
		ActiveDomain:     d.ActiveDomain,
		StableURL:        d.StableURL,
		TelegramChatID:   d.TelegramChatID,
		TelegramBotToken: d.TelegramBotToken,
	}
}
