package music

import "fmt"

// guardLevel says how much of the playback state a command needs
type guardLevel int

const (
	// needVoice: caller in voice and the bot not in another channel
	needVoice guardLevel = iota
	// needPlayer: an active player in the guild
	needPlayer
	// needQueue: something playing or queued
	needQueue
)

const (
	msgNoVoice      = "Necesitas estar dentro de un ****canal de voz****."
	msgOtherChannel = "Lo siento pero ya estoy dentro de un canal y no pienso moverme. Mejor ven tú UwU."
	msgUnavailable  = "❌ El sistema de música no está disponible."
)

// playbackState is what the guards know about a guild
type playbackState struct {
	UserVoice string
	BotVoice  string
	HasPlayer bool
	// Tracks counts the current track plus the queued ones
	Tracks int
}

// checkPlaybackGuards returns the refusal message, or "" when the command
// may run
func checkPlaybackGuards(s playbackState, prefix string, level guardLevel) string {
	if s.UserVoice == "" {
		return msgNoVoice
	}
	if s.BotVoice != "" && s.BotVoice != s.UserVoice {
		return msgOtherChannel
	}
	if level >= needPlayer && !s.HasPlayer {
		return fmt.Sprintf("No hay un reproductor activo en este servidor \n`Intenta: %splay <canción o url>`", prefix)
	}
	if level >= needQueue && s.Tracks < 1 {
		return fmt.Sprintf("No hay ninguna canción en la cola. Intenta agragando una usando: \n`%splay <canción o url>`", prefix)
	}
	return ""
}

func (r *request) state() playbackState {
	s := playbackState{
		UserVoice: r.platform.VoiceChannel(r.guildID, r.userID),
		BotVoice:  r.platform.VoiceChannel(r.guildID, r.platform.BotID()),
	}
	if r.music == nil {
		return s
	}
	if p, ok := r.music.Player(r.guildID); ok {
		s.HasPlayer = true
		s.Tracks = len(p.Queue)
		if p.Current != nil {
			s.Tracks++
		}
	}
	return s
}

// guard replies with the refusal and reports false when the command must stop
func (r *request) guard(level guardLevel) (bool, error) {
	if r.music == nil {
		return false, r.out.Reply(msgUnavailable)
	}
	if msg := checkPlaybackGuards(r.state(), r.prefix, level); msg != "" {
		return false, r.out.Reply(msg)
	}
	return true, nil
}
