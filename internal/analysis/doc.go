// Package analysis inspects recorded attitude traces in the frequency
// domain.
//
// A well tuned stabilizer settles without ringing. Too much rate P or D
// shows up as a sharp peak in the roll or pitch spectrum:
//
//	osc := analysis.Oscillation(roll, dt)
//	if osc.Frequency > 5 && osc.Ratio > 0.5 {
//	    // likely gain-induced oscillation
//	}
package analysis
