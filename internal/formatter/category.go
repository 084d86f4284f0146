package formatter

// Category is a group of formatter settings shown together, each with its
// own preview snippet.
type Category string

const (
	CategoryCommon     Category = "Common"
	CategoryBlankline  Category = "Blankline"
	CategoryComment    Category = "Comment"
	CategoryNewline    Category = "Newline"
	CategoryWhitespace Category = "Whitespace"
	CategoryWrapping   Category = "Wrapping"
)

var categories = []Category{
	CategoryCommon,
	CategoryBlankline,
	CategoryComment,
	CategoryNewline,
	CategoryWhitespace,
	CategoryWrapping,
}

// Categories returns every category in navigation order.
func Categories() []Category {
	dup := make([]Category, len(categories))
	copy(dup, categories)
	return dup
}

// ParseCategory returns the category named raw.
func ParseCategory(raw string) (Category, bool) {
	c := Category(raw)
	return c, c.Valid()
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Title is the navigation label of c.
func (c Category) Title() string {
	switch c {
	case CategoryBlankline:
		return "Blank Lines"
	case CategoryNewline:
		return "New Lines"
	default:
		return string(c)
	}
}

// Sample returns the Java snippet previewed for c.
func (c Category) Sample() string {
	return samples[c]
}

var samples = map[Category]string{
	CategoryCommon: `package com.example;

public class Example {
	private int counter = 0;

	public void increment() {
		if (counter < 10) { counter++; }
	}
}
`,
	CategoryBlankline: `package com.example;
import java.util.List;
public class Example {
	private List<String> names;
	private int size;
	public Example() {
		size = 0;
	}


	public int size() { return size; }
}
`,
	CategoryComment: `/**
 * An example class whose javadoc comment is long enough to be wrapped by the formatter when the line length is exceeded.
 * @param name the name
 */
public class Example {
	// A line comment that explains the field below in far more words than it needs to.
	private String name;
	/* block comment */ private int count;
}
`,
	CategoryNewline: `public class Example {
	public void run(int[] values) {
		for (int v : values) { if (v > 0) { System.out.println(v); } else { continue; } }
		Runnable r = () -> {};
		int[] empty = new int[] {};
	}
	@Deprecated public void old() {}
}
`,
	CategoryWhitespace: `public class Example {
	public int sum(int a,int b){
		int result=a+b;
		for(int i=0;i<result;i++){result-=i;}
		return (result>0)?result:-result;
	}
}
`,
	CategoryWrapping: `public class Example {
	public String describe(String firstArgument, String secondArgument, String thirdArgument, String fourthArgument) {
		return String.join(", ", firstArgument, secondArgument, thirdArgument, fourthArgument).toUpperCase().trim();
	}
}
`,
}
