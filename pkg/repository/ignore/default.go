package ignore

// DefaultIgnore holds the baseline .inkignore patterns applied to every
// working tree, before any repository-local .inkignore file is merged in.
const DefaultIgnore = `# ink ignore file
# Specifies intentionally untracked files ink should exclude from commits

# Dependencies
node_modules/
vendor/

# Build outputs
dist/
build/
out/
*.exe
*.dll
*.so
*.dylib

# IDE files
.vscode/
.idea/
*.sublime-*

# OS files
.DS_Store
Thumbs.db
desktop.ini

# Temporary files
*.tmp
*.temp
*.swp
*.swo
*~

# Logs
*.log
logs/

# Environment files
.env
.env.local
.env.*.local

# Go
*.test
*.out

# Secrets and keys
*.key
*.pem
*.p12
*.pfx
secrets/
`
