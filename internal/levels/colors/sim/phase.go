package sim

// Phase is the animation state of the level. Exactly one is active.
type Phase int

const (
	PhaseMotherVibration Phase = iota // Single large dot shakes in the center
	PhaseWaitingForClick              // Mother dot idles until the first press
	PhaseDispersion                   // Dots fly outward from the center
	PhaseGameplay                     // Free roam, hit testing, regeneration
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseMotherVibration:
		return "mother_vibration"
	case PhaseWaitingForClick:
		return "waiting_for_click"
	case PhaseDispersion:
		return "dispersion"
	case PhaseGameplay:
		return "gameplay"
	default:
		return "unknown"
	}
}
