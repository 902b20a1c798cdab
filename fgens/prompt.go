package fgens

const declarationsPlaceholder = "{declarations}"

const (
	DefaultQueryPrefix = "# define function: "
	DefaultQuerySuffix = "."
)

const DefaultPrompt = `# Functions are written in a Python dialect without imports, classes or exceptions.
# Besides builtins, only the following definitions are available:
` + declarationsPlaceholder + `

# define function: total = add_all(numbers).
def add_all(numbers):
    total = 0
    for n in numbers:
        total += n
    return total

# define function: middle = midpoint(a, b).
def midpoint(a, b):
    return [(x + y) / 2 for x, y in zip(a, b)]

# define function: names = names_with_prefix(items, 'red').
def names_with_prefix(items, prefix):
    return [item for item in items if item.startswith(prefix)]`

var DefaultStop = []string{"# define", ">>>"}
