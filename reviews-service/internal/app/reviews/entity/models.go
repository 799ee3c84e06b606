package entity

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousAuthor подставляется, если автор не указан
const AnonymousAuthor = "Anonymous User"

type Category string

const (
	CategoryAll         Category = "All" // sentinel фильтра, не категория отзыва
	CategoryElectronics Category = "Electronics"
	CategoryComputers   Category = "Computers"
	CategoryClothing    Category = "Clothing"
	CategoryBooks       Category = "Books"
	CategoryHomeGarden  Category = "Home & Garden"
)

// Categories - допустимые категории отзыва в порядке отображения
var Categories = []Category{
	CategoryElectronics,
	CategoryComputers,
	CategoryClothing,
	CategoryBooks,
	CategoryHomeGarden,
}

// Valid сообщает, может ли отзыв иметь эту категорию (All не может)
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Review struct {
	ID             string              `json:"id" bson:"_id"` // UUIDv7, сортируется по времени создания
	Author         string              `json:"author" bson:"author"`
	ProductName    string              `json:"product_name" bson:"product_name"`
	Category       Category            `json:"category" bson:"category"`
	Rating         int                 `json:"rating" bson:"rating"` // 1..5
	Content        string              `json:"content" bson:"content"`
	AudioURL       string              `json:"audio_url,omitempty" bson:"audio_url,omitempty"`
	ImageURL       string              `json:"image_url,omitempty" bson:"image_url,omitempty"`
	HelpfulVotes   int                 `json:"helpful_votes" bson:"helpful_votes"`
	UnhelpfulVotes int                 `json:"unhelpful_votes" bson:"unhelpful_votes"`
	UserVote       VoteType            `json:"user_vote" bson:"-"`      // голос запросившего, заполняется ForVoter
	Votes          map[string]VoteType `json:"-" bson:"votes,omitempty"` // voter id -> голос
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
}

// Clone возвращает копию, не разделяющую карту голосов
func (r Review) Clone() Review {
	if r.Votes != nil {
		votes := make(map[string]VoteType, len(r.Votes))
		for k, v := range r.Votes {
			votes[k] = v
		}
		r.Votes = votes
	}
	return r
}

// ForVoter возвращает копию с UserVote для указанного голосующего
func (r Review) ForVoter(voterID string) Review {
	out := r.Clone()
	out.UserVote = out.Votes[voterID]
	return out
}

// NewReviewID генерирует идентификатор, упорядоченный по времени создания
func NewReviewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ReviewDraft - незафиксированные данные нового отзыва
type ReviewDraft struct {
	Author      string   `json:"author"`
	ProductName string   `json:"product_name"`
	Category    Category `json:"category"`
	Rating      int      `json:"rating"`
	Content     string   `json:"content"`
	AudioURL    string   `json:"audio_url,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// FilterCriteria - критерии видимого списка.
// Category == "" или All и Rating == 0 означают "без фильтра".
type FilterCriteria struct {
	SearchTerm string   `json:"search"`
	Category   Category `json:"category"`
	Rating     int      `json:"rating"`
}

const (
	EventReviewCreated = "REVIEW_CREATED"
	EventReviewVoted   = "REVIEW_VOTED"
)

type ReviewEvent struct {
	EventType      string    `json:"event_type"`
	ReviewID       string    `json:"review_id"`
	ProductName    string    `json:"product_name"`
	Category       Category  `json:"category"`
	Rating         int       `json:"rating"`
	VoterID        string    `json:"voter_id,omitempty"`
	VoteType       VoteType  `json:"vote_type,omitempty"`
	HelpfulVotes   int       `json:"helpful_votes"`
	UnhelpfulVotes int       `json:"unhelpful_votes"`
	Timestamp      time.Time `json:"timestamp"`
}
