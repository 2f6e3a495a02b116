package lexer

// descriptor is one entry of the fixed-lexeme table the scanner matches
// against at each position. word descriptors (keywords, boolean/logical
// word-operators) only match when the lexeme is followed by whitespace
// or a newline; otherwise the candidate text is treated as the prefix of
// an identifier.
type descriptor struct {
	lexeme string
	kind   Kind
	word   bool
}

// fixedTokens is ordered longest-first within every prefix family so the
// scanner never commits to a short match that shadows a longer one:
// "+=" before "+", "else if" before "else", "loop while" before "while".
var fixedTokens = []descriptor{
	{"loop while", LOOPWHILE, true},
	{"loop for", LOOPFOR, true},
	{"else if", ELSEIF, true},
	{"while", WHILE, true},
	{"if", IF, true},
	{"then", THEN, true},
	{"else", ELSE, true},
	{"for", FOR, true},
	{"from", FROM, true},
	{"to", TO, true},
	{"return", RETURN, true},
	{"method", METHOD, true},
	{"true", TRUE, true},
	{"false", FALSE, true},
	{"and", AND, true},
	{"or", OR, true},
	{"not", NOT, true},
	{"mod", MOD, true},
	{"div", DIV, true},

	{"++", PLUSPLUS, false},
	{"--", MINUSMINUS, false},
	{"+=", PLUSEQ, false},
	{"-=", MINUSEQ, false},
	{"*=", STAREQ, false},
	{"/=", SLASHEQ, false},
	{"%=", PERCENTEQ, false},
	{"==", EQ, false},
	{"!=", NOTEQ, false},
	{"<=", LE, false},
	{">=", GE, false},
	{"&&", ANDAND, false},
	{"||", OROR, false},
	{"<<", SHL, false},
	{">>", SHR, false},

	{"+", PLUS, false},
	{"-", MINUS, false},
	{"*", STAR, false},
	{"/", SLASH, false},
	{"%", PERCENT, false},
	{"=", ASSIGN, false},
	{"<", LT, false},
	{">", GT, false},
	{"!", BANG, false},
	{"(", LPAREN, false},
	{")", RPAREN, false},
	{"[", LBRACKET, false},
	{"]", RBRACKET, false},
	{",", COMMA, false},
	{".", DOT, false},
}
