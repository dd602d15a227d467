package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CaptionTrack is one entry of the caption track catalog.
type CaptionTrack struct {
	BaseURL      string
	LanguageCode string
	Kind         string // "asr" = auto-generated
	Name         string
}

type playerResp struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer *struct {
			CaptionTracks *[]captionTrackJSON `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrackJSON struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Name         struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
}

func (t captionTrackJSON) displayName() string {
	if name := strings.TrimSpace(t.Name.SimpleText); name != "" {
		return name
	}
	var sb strings.Builder
	for _, r := range t.Name.Runs {
		sb.WriteString(r.Text)
	}
	if name := strings.TrimSpace(sb.String()); name != "" {
		return name
	}
	return "English"
}

// SelectEnglishTrack returns the first catalog track whose language code starts
// with "en" and whose baseUrl is set. The catalog already ranks default tracks first.
func SelectEnglishTrack(doc []byte) (CaptionTrack, error) {
	var pr playerResp
	if err := json.Unmarshal(doc, &pr); err != nil {
		return CaptionTrack{}, parseError(stageTrack, ErrNoCaptionsAvailable, fmt.Errorf("decode player response: %w", err))
	}
	if pr.Captions == nil || pr.Captions.PlayerCaptionsTracklistRenderer == nil ||
		pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks == nil {
		return CaptionTrack{}, parseError(stageTrack, ErrNoCaptionsAvailable, playabilityCause(pr))
	}

	for _, t := range *pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks {
		if strings.HasPrefix(t.LanguageCode, "en") && t.BaseURL != "" {
			return CaptionTrack{
				BaseURL:      t.BaseURL,
				LanguageCode: t.LanguageCode,
				Kind:         t.Kind,
				Name:         t.displayName(),
			}, nil
		}
	}
	return CaptionTrack{}, parseError(stageTrack, ErrNoEnglishTrack, nil)
}

// playabilityCause explains a missing catalog using the player's own status, if any.
func playabilityCause(pr playerResp) error {
	if pr.PlayabilityStatus == nil || pr.PlayabilityStatus.Status == "" || pr.PlayabilityStatus.Status == "OK" {
		return nil
	}
	if pr.PlayabilityStatus.Reason != "" {
		return fmt.Errorf("%s: %s", pr.PlayabilityStatus.Status, pr.PlayabilityStatus.Reason)
	}
	return errors.New(pr.PlayabilityStatus.Status)
}
