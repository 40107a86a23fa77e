package remote

// Built-in action names the default handset maps onto. The digit grid is the
// drive pad: 2/8 straight, 4/6 spin, corners veer, 5 stops.
const (
	ActionDemo             = "demo"
	ActionLookAround       = "look_around"
	ActionRecenter         = "recenter"
	ActionLookLeft         = "look_left"
	ActionLookRight        = "look_right"
	ActionBlink            = "blink"
	ActionTiltEyes         = "tilt_eyes"
	ActionBreathe          = "breathe"
	ActionDriveForward     = "drive_forward"
	ActionDriveBackward    = "drive_backward"
	ActionSpinLeft         = "spin_left"
	ActionSpinRight        = "spin_right"
	ActionHalt             = "halt"
	ActionVeerForwardLeft  = "veer_forward_left"
	ActionVeerForwardRight = "veer_forward_right"
	ActionVeerBackLeft     = "veer_backward_left"
	ActionVeerBackRight    = "veer_backward_right"
	ActionArmLeftUp        = "arm_left_up"
	ActionArmLeftDown      = "arm_left_down"
	ActionArmRightUp       = "arm_right_up"
	ActionArmRightDown     = "arm_right_down"
	ActionPlayTrack1       = "play_track_1"
	ActionPlayTrack2       = "play_track_2"
	ActionPlayTrack3       = "play_track_3"
)

// defaultBindings is the stock 21-key NEC handset plus three auxiliary keys,
// keyed by raw code. Config can remap any of these.
var defaultBindings = map[uint32]string{
	0xFF30CF: ActionVeerForwardLeft,  // 1
	0xFF18E7: ActionDriveForward,     // 2
	0xFF7A85: ActionVeerForwardRight, // 3
	0xFF10EF: ActionSpinLeft,         // 4
	0xFF38C7: ActionHalt,             // 5
	0xFF5AA5: ActionSpinRight,        // 6
	0xFF42BD: ActionVeerBackLeft,     // 7
	0xFF4AB5: ActionDriveBackward,    // 8
	0xFF52AD: ActionVeerBackRight,    // 9
	0xFF6897: ActionBlink,            // 0
	0xFF9867: ActionTiltEyes,         // 100+
	0xFFB04F: ActionBreathe,          // 200+
	0xFFA25D: ActionLookLeft,         // CH-
	0xFF629D: ActionRecenter,         // CH
	0xFFE21D: ActionLookRight,        // CH+
	0xFF22DD: ActionArmLeftUp,        // PREV
	0xFF02FD: ActionArmRightUp,       // NEXT
	0xFFC23D: ActionDemo,             // PLAY
	0xFFE01F: ActionArmLeftDown,      // VOL-
	0xFFA857: ActionArmRightDown,     // VOL+
	0xFF906F: ActionLookAround,       // EQ
	0xFF3AC5: ActionPlayTrack1,       // AUX1
	0xFFBA45: ActionPlayTrack2,       // AUX2
	0xFF827D: ActionPlayTrack3,       // AUX3
}

// DefaultBindings returns a copy of the stock code table.
func DefaultBindings() map[uint32]string {
	bindings := make(map[uint32]string, len(defaultBindings))
	for code, action := range defaultBindings {
		bindings[code] = action
	}
	return bindings
}
