package wvgpath

import (
	"math"
)

// maxDx is the maximum radians a cubic splice is allowed to span
// when approximating a circular arc.
const maxDx float64 = math.Pi / 8

// Arc is a circular arc, with the flags of the SVG "A" path command.
type Arc struct {
	Radius float64
	Large  bool // the arc spans more than half a circle
	Sweep  bool // the arc is drawn in the positive angle direction
}

// CurveArc reconstructs the arc from (x1, y1) to (x2, y2) encoded by a curve offset
// quantized on `bits` bits (4 or 5).
// The offset, divided by 2^bits - 2, is the ratio between the bulge of the arc
// and the length of its chord. ok is false when the arc degenerates to a line.
func CurveArc(x1, y1, x2, y2 float64, offset int32, bits int) (arc Arc, ok bool) {
	dx, dy := x2-x1, y2-y1
	chord := math.Sqrt(dx*dx + dy*dy)
	if chord < 1e-9 {
		return Arc{}, false
	}
	k := float64(int(1)<<bits - 2)
	r := float64(offset) / k
	bulge := r * chord
	if math.Abs(bulge) < 1e-9 {
		return Arc{}, false
	}
	return Arc{
		Radius: (chord*chord/4 + bulge*bulge) / (2 * math.Abs(bulge)),
		Large:  math.Abs(r) > 0.5,
		Sweep:  offset > 0,
	}, true
}

// ArcTo adds the arc from (x1, y1), which must be the current point,
// to (x2, y2), approximated with cubic bezier curves.
func (p *Path) ArcTo(x1, y1, x2, y2 float64, arc Arc) {
	radius := arc.Radius
	cx, cy := findCircleCenter(&radius, x1, y1, x2, y2, arc.Sweep, !arc.Large)

	startAngle := math.Atan2(y1-cy, x1-cx)
	endAngle := math.Atan2(y2-cy, x2-cx)
	deltaTheta := endAngle - startAngle
	arcBig := math.Abs(deltaTheta) > math.Pi
	if arcBig != arc.Large {
		if deltaTheta < 0 {
			deltaTheta += math.Pi * 2
		} else {
			deltaTheta -= math.Pi * 2
		}
	}
	// needed if the center is the midpoint of the chord
	if deltaTheta < 0 && arc.Sweep {
		deltaTheta += math.Pi * 2
	} else if deltaTheta >= 0 && !arc.Sweep {
		deltaTheta -= math.Pi * 2
	}

	segs := int(math.Abs(deltaTheta)/maxDx) + 1
	dTheta := deltaTheta / float64(segs)
	// Approximate the circle using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	tde := math.Tan(dTheta / 2)
	alpha := math.Sin(dTheta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	lx, ly := x1, y1
	ldx, ldy := -radius*math.Sin(startAngle), radius*math.Cos(startAngle)
	for i := 1; i <= segs; i++ {
		theta := startAngle + dTheta*float64(i)
		var px, py float64
		if i == segs {
			px, py = x2, y2 // exact end point
		} else {
			px, py = cx+radius*math.Cos(theta), cy+radius*math.Sin(theta)
		}
		dx, dy := -radius*math.Sin(theta), radius*math.Cos(theta)
		p.CubeBezier(ToFixedP(lx+alpha*ldx, ly+alpha*ldy),
			ToFixedP(px-alpha*dx, py-alpha*dy), ToFixedP(px, py))
		lx, ly, ldx, ldy = px, py, dx, dy
	}
}

// findCircleCenter locates the center of the circle of radius `r` going through the two points.
// If the points are too far apart, the radius is increased to half their distance.
// Among the two possible centers, the one matching the sweep and small arc flags is returned.
func findCircleCenter(r *float64, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	// Move origin to start point
	nx, ny := endX-startX, endY-startY

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *r**r < midlenSq {
		*r = math.Sqrt(midlenSq)
	} else if midlenSq > 0 {
		hr = math.Sqrt(*r**r-midlenSq) / math.Sqrt(midlenSq)
	}
	// Notice that if hr is zero, both answers are the same.
	// With y pointing down, a small arc drawn in the positive
	// direction has its center on the right of the chord.
	if sweep != smallArc {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}
	return cx + startX, cy + startY
}
