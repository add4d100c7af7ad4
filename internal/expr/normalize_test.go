package expr

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2x+3", "2*x+3"},
		{"x2", "x*2"},
		{"x(x+1)", "x*(x+1)"},
		{"(x+1)x", "(x+1)*x"},
		{"(x+1)(x-1)", "(x+1)*(x-1)"},
		{"x^2", "x**2"},
		{"ln(x)", "log(x)"},
		{"2.5y", "2.5*y"},
		{"max(x,1)", "max(x,1)"},
		{"exp(2x)", "exp(2*x)"},
		{"3xy", "3xy"},
		{"sin(x)cos(x)", "sin(x)cos(x)"},
	}

	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitOrientation(t *testing.T) {
	tests := []struct {
		in     string
		body   string
		orient Orientation
	}{
		{"y = x", " x", YOfX},
		{"Y=x", "x", YOfX},
		{"x = y^2", " y^2", XOfY},
		{"  X = y", " y", XOfY},
		{"2x + 1", "2x + 1", YOfX},
		{"x", "x", YOfX},
		{"x == 1", "x == 1", YOfX},
	}

	for _, tt := range tests {
		body, orient := splitOrientation(tt.in)
		if body != tt.body || orient != tt.orient {
			t.Errorf("splitOrientation(%q) = (%q, %v), want (%q, %v)", tt.in, body, orient, tt.body, tt.orient)
		}
	}
}

func TestSplitCondition(t *testing.T) {
	tests := []struct {
		in      string
		body    string
		cond    string
		has, ok bool
	}{
		{"x", "x", "", false, true},
		{"x {x > 0}", "x ", "x > 0", true, true},
		{"x { x > 0 }  ", "x ", " x > 0 ", true, true},
		{"x { x > 0", "x ", " x > 0", true, false},
		{"x } x", "x } x", "", false, false},
		{"x {x} {y}", "x ", "x} {y", true, false},
	}

	for _, tt := range tests {
		body, cond, has, ok := splitCondition(tt.in)
		if body != tt.body || cond != tt.cond || has != tt.has || ok != tt.ok {
			t.Errorf("splitCondition(%q) = (%q, %q, %v, %v), want (%q, %q, %v, %v)",
				tt.in, body, cond, has, ok, tt.body, tt.cond, tt.has, tt.ok)
		}
	}
}
