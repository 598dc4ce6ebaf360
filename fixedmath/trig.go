package fixedmath

// Trigonometric and square-root routines, all table-driven and integer-
// only so results are bit-identical on every platform. The forward
// tables cover [0, 90] degrees at one-degree resolution; the remaining
// three quadrants are derived by reflection and sign per the classic
// identities (see comments beside sin/cos/tan below). Values in the
// tables are scaled by sinEnlarge/tanEnlarge (>= Precision) rather than
// Precision directly, to retain resolution for small angles before the
// final narrowing back to FixedNum.

const tableCount = 90 // samples per quadrant: degrees 0..90 inclusive

const sinEnlarge = 65536
const tanEnlarge = 65536

// sinTable[i] holds sin(i degrees) * sinEnlarge, rounded, for i in [0,90].
var sinTable = [tableCount + 1]int64{
	0, 1144, 2287, 3430, 4572, 5712, 6850, 7987, 9121, 10252,
	11380, 12505, 13626, 14742, 15855, 16962, 18064, 19161, 20252, 21336,
	22415, 23486, 24550, 25607, 26656, 27697, 28729, 29753, 30767, 31772,
	32768, 33754, 34729, 35693, 36647, 37590, 38521, 39441, 40348, 41243,
	42126, 42995, 43852, 44695, 45525, 46341, 47143, 47930, 48703, 49461,
	50203, 50931, 51643, 52339, 53020, 53684, 54332, 54963, 55578, 56175,
	56756, 57319, 57865, 58393, 58903, 59396, 59870, 60326, 60764, 61183,
	61584, 61966, 62328, 62672, 62997, 63303, 63589, 63856, 64104, 64332,
	64540, 64729, 64898, 65048, 65177, 65287, 65376, 65446, 65496, 65526,
	65536,
}

// tanTable[i] holds tan(i degrees) * tanEnlarge, rounded, for i in [0,89];
// tanTable[90] is a large finite sentinel standing in for the asymptote.
var tanTable = [tableCount + 1]int64{
	0, 1144, 2289, 3435, 4583, 5734, 6888, 8047, 9210, 10380,
	11556, 12739, 13930, 15130, 16340, 17560, 18792, 20036, 21294, 22566,
	23853, 25157, 26478, 27818, 29179, 30560, 31964, 33392, 34846, 36327,
	37837, 39378, 40951, 42560, 44205, 45889, 47615, 49385, 51202, 53070,
	54991, 56970, 59009, 61113, 63287, 65536, 67865, 70279, 72785, 75391,
	78103, 80930, 83882, 86969, 90203, 93595, 97161, 100917, 104880, 109070,
	113512, 118230, 123255, 128622, 134369, 140542, 147196, 154393, 162207, 170727,
	180059, 190330, 201699, 214359, 228551, 244584, 262851, 283868, 308323, 337153,
	371673, 413778, 466313, 533748, 623533, 749080, 937208, 1250501, 1876705, 3754555,
	2000000000,
}

const (
	angle90  = tableCount
	angle180 = angle90 * 2
	angle270 = angle90 * 3
	angle360 = angle90 * 4
)

// degree2angle maps an arbitrary degree value onto a table index in
// [0, angle360), wrapping negative and out-of-range inputs.
func degree2angle(degree FixedNum) int {
	angle := degree.Mul(FromInt(angle90)).Div(FromInt(90)).AsInt() % angle360
	if angle < 0 {
		angle += angle360
	}
	return angle
}

func angle2degree(angle int) FixedNum {
	return FromInt(angle).Mul(FromInt(90)).DivInt(angle90)
}

func sinToFloat(v int64) FixedNum {
	return FromRaw(int32((v << Shift) / sinEnlarge))
}

func sinFromFloat(v FixedNum) int64 {
	return (int64(v) * sinEnlarge) >> Shift
}

func tanToFloat(v int64) FixedNum {
	return FromRaw(int32((v << Shift) / tanEnlarge))
}

func tanFromFloat(v FixedNum) int64 {
	return (int64(v) * tanEnlarge) >> Shift
}

// Sin returns sin(degree) using quadrant reflection over the forward
// table:  sin(x+90)=cos(x)=sin(90-x); sin(x+180)=-sin(x);
// sin(x+270)=-sin(90-x).
func Sin(degree FixedNum) FixedNum {
	angle := degree2angle(degree)
	var ret int64
	switch {
	case angle < angle90:
		ret = sinTable[angle]
	case angle < angle180:
		angle -= angle90
		ret = sinTable[angle90-angle]
	case angle < angle270:
		angle -= angle180
		ret = -sinTable[angle]
	default:
		angle -= angle270
		ret = -sinTable[angle90-angle]
	}
	return sinToFloat(ret)
}

// Cos returns cos(degree); cos(x)=sin(90-x), cos(x+90)=-sin(x),
// cos(x+180)=-cos(x)=-sin(90-x), cos(x+270)=sin(x).
func Cos(degree FixedNum) FixedNum {
	angle := degree2angle(degree)
	var ret int64
	switch {
	case angle < angle90:
		ret = sinTable[angle90-angle]
	case angle < angle180:
		angle -= angle90
		ret = -sinTable[angle]
	case angle < angle270:
		angle -= angle180
		ret = -sinTable[angle90-angle]
	default:
		angle -= angle270
		ret = sinTable[angle]
	}
	return sinToFloat(ret)
}

// Tan returns tan(degree); tan(x+90)=-cot(x)=-tan(90-x), tan(x+180)=
// tan(x), tan(x+270)=-tan(90-x).
func Tan(degree FixedNum) FixedNum {
	angle := degree2angle(degree)
	var ret int64
	switch {
	case angle <= angle90:
		ret = tanTable[angle]
	case angle <= angle180:
		angle -= angle90
		ret = -tanTable[angle90-angle]
	case angle <= angle270:
		angle -= angle180
		ret = tanTable[angle]
	default:
		angle -= angle270
		ret = -tanTable[angle90-angle]
	}
	return tanToFloat(ret)
}

// findTableIndex performs a binary search over a forward table (sin or
// tan) for the sample closest to v, returning its index — used by the
// inverse trig functions.
func findTableIndex(table *[tableCount + 1]int64, v int64) int {
	l, r := 0, tableCount
	for l < r {
		m := (l + r) / 2
		t := table[m]
		switch {
		case v == t:
			l, r = m, m
		case v < t:
			r = m - 1
		default:
			l = m + 1
		}
	}
	if l < r {
		return l
	}
	return r
}

func Asin(value FixedNum) FixedNum {
	v := sinFromFloat(value)
	abs := v
	if abs < 0 {
		abs = -abs
	}
	angle := findTableIndex(&sinTable, abs)
	degree := angle2degree(angle)
	if v < 0 {
		degree = degree.Neg()
	}
	return degree
}

func Acos(value FixedNum) FixedNum {
	v := sinFromFloat(value)
	abs := v
	if abs < 0 {
		abs = -abs
	}
	angle := findTableIndex(&sinTable, abs)
	degree := angle2degree(angle)
	if v < 0 {
		return FromInt(90).Add(degree)
	}
	return FromInt(90).Sub(degree)
}

func Atan(value FixedNum) FixedNum {
	v := tanFromFloat(value)
	abs := v
	if abs < 0 {
		abs = -abs
	}
	angle := findTableIndex(&tanTable, abs)
	degree := angle2degree(angle)
	if value < 0 {
		degree = degree.Neg()
	}
	return degree
}

// Atan2 composes atan(y/x) with the quadrant correction implied by the
// signs of x and y; x==0 is the vertical-asymptote special case.
func Atan2(y, x FixedNum) FixedNum {
	var degree FixedNum
	if x != 0 {
		degree = Atan(y.Div(x)).Abs()
	} else {
		degree = FromInt(90)
	}

	switch {
	case x < 0 && y < 0:
		return degree.Sub(FromInt(180))
	case x < 0:
		return FromInt(180).Sub(degree)
	case y < 0:
		return degree.Neg()
	default:
		return degree
	}
}

// Sqrt32 is the digit-by-digit integer square root, 16 iterations.
func Sqrt32(a uint32) uint32 {
	var num, num2 uint32
	for i := 0; i < 16; i++ {
		num2 <<= 1
		num <<= 2
		num += a >> 30
		a <<= 2
		if num2 < num {
			num2++
			num -= num2
			num2++
		}
	}
	return (num2 >> 1) & 0xffff
}

// Sqrt64 is the digit-by-digit integer square root, 32 iterations.
func Sqrt64(a uint64) uint64 {
	var num, num2 uint64
	for i := 0; i < 32; i++ {
		num2 <<= 1
		num <<= 2
		num += a >> 62
		a <<= 2
		if num2 < num {
			num2++
			num -= num2
			num2++
		}
	}
	return (num2 >> 1) & 0xffffffff
}

// SqrtInt64 dispatches to the 32- or 64-bit routine by magnitude.
func SqrtInt64(a int64) int32 {
	if a <= 0 {
		return 0
	}
	if a <= 0xffffffff {
		return int32(Sqrt32(uint32(a)))
	}
	return int32(Sqrt64(uint64(a)))
}

// Sqrt computes the fixed-point square root by upscaling the raw value
// by 2^Shift before the integer sqrt, recovering the lost precision.
func Sqrt(a FixedNum) FixedNum {
	if a <= 0 {
		return Zero
	}
	return FromRaw(SqrtInt64(int64(a) << Shift))
}

var (
	PI          = FromRaw(3217)
	PIHalf      = PI.Div(FromInt(2))
	RadianToDeg = FromInt(180).Div(PI)
	DegToRadian = PI.Div(FromInt(180))

	DefaultEpsilon  = FromRaw(1)
	VelocityEpsilon = FromRaw(10)
	DistanceEpsilon = FromRaw(10)
)

// AlmostEqual reports whether a and b differ by no more than epsilon.
func AlmostEqual(a, b FixedNum, epsilon FixedNum) bool {
	d := a.Sub(b)
	return d >= epsilon.Neg() && d <= epsilon
}

// FormatAngle wraps an angle into [0, 360).
func FormatAngle(angle FixedNum) FixedNum {
	full := FromInt(360)
	for angle < 0 {
		angle = angle.Add(full)
	}
	for angle >= full {
		angle = angle.Sub(full)
	}
	return angle
}
