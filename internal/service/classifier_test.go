package service

import "testing"

func TestIsInstitutional(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"XYZ MUTUAL FUND", true},
		{"RAJESH KUMAR SHARMA", false},
		{"abc bank ltd", true},
		{"Life Insurance Corporation of India", true},
		{"GOLDMAN SACHS (SINGAPORE) PTE - ODI", false},
		{"SOCIETE GENERALE SECURITIES", true},
		{"Motilal Oswal Wealth Ltd", true},
		{"FUNDAMENTAL TRADERS", true}, // substring match, known false positive
		{"", false},
	}
	for _, c := range cases {
		if got := IsInstitutional(c.name); got != c.want {
			t.Fatalf("IsInstitutional(%q)=%v, want %v", c.name, got, c.want)
		}
	}
}
