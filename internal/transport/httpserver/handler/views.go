package handler

import (
	"encoding/json"
	"time"

	chatdomain "community-app-go/internal/domain/chat"
	profiledomain "community-app-go/internal/domain/profile"
	taxonomydomain "community-app-go/internal/domain/taxonomy"
)

type profileResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId"`
	Handle             string          `json:"handle"`
	DisplayName        string          `json:"displayName"`
	Gender             int             `json:"gender"`
	AvatarURL          string          `json:"avatarUrl"`
	BannerURL          string          `json:"bannerUrl"`
	StatusMessage      string          `json:"statusMessage"`
	Bio                string          `json:"bio"`
	ExpertiseSummary   string          `json:"expertiseSummary"`
	Background         string          `json:"background"`
	Motivation         string          `json:"motivation"`
	Expectations       string          `json:"expectations"`
	CanOffer           string          `json:"canOffer"`
	Achievements       string          `json:"achievements"`
	CoreSkills         []string        `json:"coreSkills"`
	OtherSocialIssues  string          `json:"otherSocialIssues"`
	Hobbies            string          `json:"hobbies"`
	Inspirations       string          `json:"inspirations"`
	Wechat             string          `json:"wechat"`
	Province           string          `json:"province"`
	City               string          `json:"city"`
	District           string          `json:"district"`
	LocationVisibility int             `json:"locationVisibility"`
	IsVerified         bool            `json:"isVerified"`
	NewSnapshot        json.RawMessage `json:"newSnapshot,omitempty"`
	ExtraData          json.RawMessage `json:"extraData,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

type tagResponse struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type slotResponse struct {
	WeekDay  int `json:"weekDay"`
	TimeSlot int `json:"timeSlot"`
}

type medalResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
}

type messageResponse struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toProfileResponse(p profiledomain.Profile) profileResponse {
	var skills []string
	if len(p.CoreSkills) > 0 {
		_ = json.Unmarshal(p.CoreSkills, &skills)
	}
	if skills == nil {
		skills = []string{}
	}

	return profileResponse{
		ID:                 p.ID,
		UserID:             p.UserID,
		Handle:             p.Handle,
		DisplayName:        p.DisplayName,
		Gender:             p.Gender,
		AvatarURL:          p.AvatarURL,
		BannerURL:          p.BannerURL,
		StatusMessage:      p.StatusMessage,
		Bio:                p.Bio,
		ExpertiseSummary:   p.ExpertiseSummary,
		Background:         p.Background,
		Motivation:         p.Motivation,
		Expectations:       p.Expectations,
		CanOffer:           p.CanOffer,
		Achievements:       p.Achievements,
		CoreSkills:         skills,
		OtherSocialIssues:  p.OtherSocialIssues,
		Hobbies:            p.Hobbies,
		Inspirations:       p.Inspirations,
		Wechat:             p.Wechat,
		Province:           p.Province,
		City:               p.City,
		District:           p.District,
		LocationVisibility: p.LocationVisibility,
		IsVerified:         p.IsVerified,
		NewSnapshot:        json.RawMessage(p.NewSnapshot),
		ExtraData:          json.RawMessage(p.ExtraData),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toTagResponses(tags []profiledomain.Tag) []tagResponse {
	result := make([]tagResponse, 0, len(tags))
	for _, tag := range tags {
		result = append(result, tagResponse{ID: tag.ID, Content: tag.Content, Category: tag.Category})
	}
	return result
}

func toTaxonomyTagResponses(tags []taxonomydomain.Tag) []tagResponse {
	result := make([]tagResponse, 0, len(tags))
	for _, tag := range tags {
		result = append(result, tagResponse{ID: tag.ID, Content: tag.Content, Category: tag.Category})
	}
	return result
}

func toSlotResponses(slots []profiledomain.Slot) []slotResponse {
	result := make([]slotResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, slotResponse{WeekDay: slot.WeekDay, TimeSlot: slot.TimeSlot})
	}
	return result
}

func toMedalResponses(medals []profiledomain.Medal) []medalResponse {
	result := make([]medalResponse, 0, len(medals))
	for _, medal := range medals {
		result = append(result, medalResponse{
			ID:          medal.ID,
			Name:        medal.Name,
			Description: medal.Description,
			IconURL:     medal.IconURL,
		})
	}
	return result
}

func toMessageResponses(messages []chatdomain.Message) []messageResponse {
	result := make([]messageResponse, 0, len(messages))
	for _, message := range messages {
		result = append(result, toMessageResponse(message))
	}
	return result
}

func toMessageResponse(m chatdomain.Message) messageResponse {
	return messageResponse{
		ID:         m.ID,
		Content:    m.Content,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
