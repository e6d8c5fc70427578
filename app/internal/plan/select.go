package plan

import "github.com/marcopiovanello/yt-media-dl/app/internal/media"

// PreferredAudio is the source container picked first when available, it is
// the one the transcoder knows how to convert.
const PreferredAudio = media.M4A

// BestAudio picks the preferred container first, then the highest bitrate.
func BestAudio(item media.Item) (media.Variant, bool) {
	var (
		best  media.Variant
		found bool
	)

	for _, v := range item.VariantsOf(media.AudioStream) {
		if !found || betterAudio(v, best) {
			best, found = v, true
		}
	}

	return best, found
}

func betterAudio(candidate, current media.Variant) bool {
	cp, kp := candidate.Container == PreferredAudio, current.Container == PreferredAudio
	if cp != kp {
		return cp
	}
	return candidate.Bitrate > current.Bitrate
}

// BestVideo prefers variants carrying an audio track, so the file plays on
// its own, then the tallest picture, then the highest bitrate.
func BestVideo(item media.Item) (media.Variant, bool) {
	var (
		best  media.Variant
		found bool
	)

	for _, v := range item.VariantsOf(media.VideoStream) {
		if !found || betterVideo(v, best) {
			best, found = v, true
		}
	}

	return best, found
}

func betterVideo(candidate, current media.Variant) bool {
	if candidate.HasAudio != current.HasAudio {
		return candidate.HasAudio
	}
	if candidate.Height != current.Height {
		return candidate.Height > current.Height
	}
	return candidate.Bitrate > current.Bitrate
}
