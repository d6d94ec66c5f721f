package currency

import "testing"

func createTestGroup(t *testing.T) *NominalGroup {
	g := NewNominalGroup(Denominations)
	if err := g.Add(10, 1); err == nil {
		t.Fatal("expected invalid nominal")
	}
	for _, n := range Denominations {
		if err := g.Add(n, 10); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestSum(t *testing.T) {
	t.Parallel()
	if s := Sum(nil); s != 0 {
		t.Fatalf("sum nil = %d", s)
	}
	if s := Sum([]Nominal{100, 500, 1000, 5000, 10000}); s != 16600 {
		t.Fatalf("sum = %d, expected 16600", s)
	}
}

func TestExactChange(t *testing.T) {
	t.Parallel()
	if !ExactChange(16600, 1100, 15500) {
		t.Fatal("expected exact")
	}
	if ExactChange(10000, 600, 0) {
		t.Fatal("expected not exact")
	}
	if !ExactChange(600, 600, 0) {
		t.Fatal("zero change owed is exact")
	}
}

func TestNominalGroup(t *testing.T) {
	t.Parallel()
	g := createTestGroup(t)
	if total := g.Total(); total != 166000 {
		t.Fatalf("total = %d, expected 166000", total)
	}
	if c, err := g.Get(500); err != nil || c != 10 {
		t.Fatalf("get 500 = %d err=%v", c, err)
	}
	if _, err := g.Get(42); err == nil {
		t.Fatal("expected invalid nominal")
	}

	g.Deposit([]Nominal{100, 7, 100}) // 7 is not in the set
	if c, _ := g.Get(100); c != 12 {
		t.Fatalf("deposit: count 100 = %d, expected 12", c)
	}
	if total := g.Total(); total != 166200 {
		t.Fatalf("deposit: total = %d, expected 166200", total)
	}

	g.Spend([]Nominal{100, 10000})
	if c, _ := g.Get(100); c != 11 {
		t.Fatalf("spend: count 100 = %d, expected 11", c)
	}

	copied := g.Copy()
	if !copied.Equal(g) {
		t.Fatal("copy must equal source")
	}
	copied.Spend([]Nominal{500})
	if copied.Equal(g) {
		t.Fatal("copy must be independent")
	}
}

func TestSpendSkipsEmptyNominal(t *testing.T) {
	t.Parallel()
	g := NewNominalGroup(Denominations)
	if err := g.Add(500, 1); err != nil {
		t.Fatal(err)
	}
	g.Spend([]Nominal{500, 500, 100})
	if total := g.Total(); total != 0 {
		t.Fatalf("total = %d, expected 0", total)
	}
}

func TestMakeChange(t *testing.T) {
	t.Parallel()

	t.Run("ZeroOwed", func(t *testing.T) {
		g := createTestGroup(t)
		change, err := g.MakeChange(0, []Nominal{500}, NewExpendLeastCount())
		if err != nil || len(change) != 0 {
			t.Fatalf("change=%v err=%v", change, err)
		}
	})

	t.Run("GreedyHighestFirst", func(t *testing.T) {
		g := createTestGroup(t)
		before := g.Copy()
		tendered := []Nominal{100, 500, 1000, 5000, 10000}
		change, err := g.MakeChange(15500, tendered, NewExpendLeastCount())
		if err != nil {
			t.Fatal(err)
		}
		expected := []Nominal{10000, 5000, 500}
		if len(change) != len(expected) {
			t.Fatalf("change = %v, expected %v", change, expected)
		}
		for i := range expected {
			if change[i] != expected[i] {
				t.Fatalf("change = %v, expected %v", change, expected)
			}
		}
		if !g.Equal(before) {
			t.Fatal("MakeChange must not mutate the pool")
		}
	})

	t.Run("TenderedJoinsPool", func(t *testing.T) {
		// Empty machine: the only cash able to come back is what the
		// buyer just put in.
		g := NewNominalGroup(Denominations)
		change, err := g.MakeChange(500, []Nominal{500, 500}, NewExpendLeastCount())
		if err != nil {
			t.Fatal(err)
		}
		if len(change) != 1 || change[0] != 500 {
			t.Fatalf("change = %v, expected [500]", change)
		}
	})

	t.Run("Infeasible", func(t *testing.T) {
		g := NewNominalGroup(Denominations)
		if err := g.Add(10000, 10); err != nil {
			t.Fatal(err)
		}
		if err := g.Add(500, 10); err != nil {
			t.Fatal(err)
		}
		before := g.Copy()
		// 9400 cannot be assembled from {10000, 500}
		_, err := g.MakeChange(9400, []Nominal{10000}, NewExpendLeastCount())
		if err == nil {
			t.Fatal("expected ErrNominalCount")
		}
		if !g.Equal(before) {
			t.Fatal("failed MakeChange must not mutate the pool")
		}
	})

	t.Run("MostAvailable", func(t *testing.T) {
		g := NewNominalGroup(Denominations)
		if err := g.Add(100, 50); err != nil {
			t.Fatal(err)
		}
		if err := g.Add(500, 1); err != nil {
			t.Fatal(err)
		}
		change, err := g.MakeChange(300, nil, NewExpendMostAvailable())
		if err != nil {
			t.Fatal(err)
		}
		if len(change) != 3 {
			t.Fatalf("change = %v, expected three 100s", change)
		}
	})
}

func TestString(t *testing.T) {
	t.Parallel()
	g := NewNominalGroup(Denominations)
	if err := g.Add(500, 2); err != nil {
		t.Fatal(err)
	}
	if err := g.Add(100, 1); err != nil {
		t.Fatal(err)
	}
	const expected = "100:1,500:2,total:1100"
	if s := g.String(); s != expected {
		t.Fatalf("string = %q, expected %q", s, expected)
	}
}
